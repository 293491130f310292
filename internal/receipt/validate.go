package receipt

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	retailerPattern    = regexp.MustCompile(`^[\p{L}\p{N}_\p{Z}\s\-&]+$`)
	descriptionPattern = regexp.MustCompile(`^[\p{L}\p{N}_\p{Z}\s\-]+$`)
	amountPattern      = regexp.MustCompile(`^\d+\.\d{2}$`)
	clockPattern       = regexp.MustCompile(`^\d{2}:\d{2}(:\d{2})?$`)
)

// maxAmountDigits bounds the dollar part of prices and totals so that point
// arithmetic on any request that fits in maxBodySize stays within int64.
const maxAmountDigits = 12

// checkAmount reports a problem with a price or total, or "" if it is valid
func checkAmount(s string) string {
	if !amountPattern.MatchString(s) {
		return "must be a decimal amount with two fractional digits"
	}
	if len(s)-3 > maxAmountDigits {
		return fmt.Sprintf("must have at most %d digits before the decimal point", maxAmountDigits)
	}
	return ""
}

// ProcessRequest is the JSON body accepted by POST /receipts/process
type ProcessRequest struct {
	Retailer     string `json:"retailer"`
	PurchaseDate string `json:"purchaseDate"`
	PurchaseTime string `json:"purchaseTime"`
	Items        []Item `json:"items"`
	Total        string `json:"total"`
}

// FieldError describes a single invalid field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is returned when a receipt fails validation
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Field+": "+e.Message)
	}
	return "invalid receipt: " + strings.Join(msgs, "; ")
}

func (v *ValidationErrors) add(field, format string, args ...any) {
	*v = append(*v, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Validate checks every field and returns the validated Receipt.
// All problems are reported together as ValidationErrors.
func (p *ProcessRequest) Validate() (*Receipt, error) {
	var errs ValidationErrors

	if p.Retailer == "" {
		errs.add("retailer", "is required")
	} else if !retailerPattern.MatchString(p.Retailer) {
		errs.add("retailer", "must contain only letters, digits, whitespace, '-', '_' or '&'")
	}

	var date time.Time
	if p.PurchaseDate == "" {
		errs.add("purchaseDate", "is required")
	} else if d, err := time.Parse(time.DateOnly, p.PurchaseDate); err != nil {
		errs.add("purchaseDate", "must be a valid date in YYYY-MM-DD format")
	} else {
		date = d
	}

	var clock Clock
	if p.PurchaseTime == "" {
		errs.add("purchaseTime", "is required")
	} else if c, err := parseClock(p.PurchaseTime); err != nil {
		errs.add("purchaseTime", "must be a valid time in HH:MM format")
	} else {
		clock = c
	}

	if len(p.Items) == 0 {
		errs.add("items", "must contain at least one item")
	}
	items := make([]Item, 0, len(p.Items))
	for i, item := range p.Items {
		if item.ShortDescription == "" {
			errs.add(fmt.Sprintf("items[%d].shortDescription", i), "is required")
		} else if !descriptionPattern.MatchString(item.ShortDescription) {
			errs.add(fmt.Sprintf("items[%d].shortDescription", i), "must contain only letters, digits, whitespace, '-' or '_'")
		}
		if msg := checkAmount(item.Price); msg != "" {
			errs.add(fmt.Sprintf("items[%d].price", i), "%s", msg)
		}
		items = append(items, item)
	}

	if msg := checkAmount(p.Total); msg != "" {
		errs.add("total", "%s", msg)
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &Receipt{
		Retailer:     p.Retailer,
		PurchaseDate: date,
		PurchaseTime: clock,
		Items:        items,
		Total:        p.Total,
	}, nil
}

// parseClock accepts HH:MM and HH:MM:SS, dropping seconds
func parseClock(s string) (Clock, error) {
	if !clockPattern.MatchString(s) {
		return Clock{}, fmt.Errorf("time of day %q is not HH:MM", s)
	}
	for _, layout := range []string{"15:04", time.TimeOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
		}
	}
	return Clock{}, fmt.Errorf("parsing time of day %q", s)
}
