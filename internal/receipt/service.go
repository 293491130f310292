package receipt

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Calculator computes the points for a validated receipt
type Calculator interface {
	Calculate(r *Receipt) int
}

// IDGenerator generates unique IDs for receipts
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// uuidGenerator generates random (v4) UUIDs
type uuidGenerator struct{}

func (g *uuidGenerator) Generate() string {
	return uuid.NewString()
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles receipt operations
type Service struct {
	db          DB
	calculator  Calculator
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source
func NewService(db DB, calculator Calculator) *Service {
	return &Service{
		db:          db,
		calculator:  calculator,
		idGenerator: &uuidGenerator{},
		timeSource:  &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, calculator Calculator, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		calculator:  calculator,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// ProcessReceipt validates a receipt, scores it and stores the points under a new ID.
// Validation failures are returned as ValidationErrors.
func (s *Service) ProcessReceipt(ctx context.Context, req *ProcessRequest) (*Record, error) {
	receipt, err := req.Validate()
	if err != nil {
		return nil, err
	}

	record := &Record{
		ID:        s.idGenerator.Generate(),
		Points:    s.calculator.Calculate(receipt),
		CreatedAt: s.timeSource.Now(),
	}

	if err := s.db.SavePoints(ctx, record); err != nil {
		return nil, fmt.Errorf("saving receipt to database: %w", err)
	}

	slog.Info("Processed receipt", "id", record.ID, "retailer", receipt.Retailer, "points", record.Points)
	return record, nil
}

// GetPoints returns the points awarded to a processed receipt
func (s *Service) GetPoints(ctx context.Context, id string) (int, error) {
	record, err := s.db.GetPoints(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("getting receipt: %w", err)
	}
	return record.Points, nil
}
