package ledger

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidAmount means a derived balance came out negative. That is
	// always an ordering bug on the caller's side and is never clamped.
	ErrInvalidAmount = errors.New("remaining balance would be negative")

	ErrNonPositiveAmount = errors.New("payment amount must be positive")
	ErrExcessPayment     = errors.New("payment amount exceeds remaining balance")
)

type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError collects every violated field in a single pass so
// callers can surface all of them at once instead of one at a time.
type ValidationError struct {
	Fields []FieldError
	kind   error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Reason)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap exposes the sentinel kind (ErrExcessPayment, ErrNonPositiveAmount)
// so errors.Is works on payment validation failures.
func (e *ValidationError) Unwrap() error {
	return e.kind
}

func (e *ValidationError) Add(field, reason string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}
