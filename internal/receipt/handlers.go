package receipt

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

const (
	maxBodySize = 1 << 20 // 1MB

	invalidReceiptDetail = "The receipt is invalid."
	notFoundDetail       = "No receipt found for that ID."
	internalErrorDetail  = "Internal server error"
)

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// writeJSON encodes body as the JSON response with the given status
func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// errorResponse is the body of every non-2xx response
type errorResponse struct {
	Detail string       `json:"detail"`
	Errors []FieldError `json:"errors,omitempty"`
}

func writeInvalid(w http.ResponseWriter, errs []FieldError) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Detail: invalidReceiptDetail, Errors: errs})
}

// handleProcessReceipt scores a submitted receipt and returns its new ID
func (s *Server) handleProcessReceipt(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Error decoding receipt", "error", err)
		writeInvalid(w, []FieldError{{Field: "body", Message: err.Error()}})
		return
	}

	record, err := s.service.ProcessReceipt(r.Context(), &req)
	if err != nil {
		var verrs ValidationErrors
		if errors.As(err, &verrs) {
			slog.Warn("Rejected invalid receipt", "errors", len(verrs))
			writeInvalid(w, verrs)
			return
		}
		slog.Error("Error processing receipt", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: internalErrorDetail})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": record.ID})
}

// handleGetPoints returns the points awarded to a receipt
func (s *Server) handleGetPoints(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	points, err := s.service.GetPoints(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: notFoundDetail})
		return
	}
	if err != nil {
		slog.Error("Error getting points", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: internalErrorDetail})
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"points": points})
}

// handleHealth reports that the server is up
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
