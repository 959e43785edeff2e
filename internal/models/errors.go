package models

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed or out-of-range input rejected before admission.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an unknown meter or order id.
	ErrNotFound = errors.New("not found")
)

// ValidationError names the offending field. It unwraps to ErrValidation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid builds a *ValidationError with a formatted reason.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// MeterNotFound wraps ErrNotFound for a meter id.
func MeterNotFound(id string) error {
	return fmt.Errorf("meter %q: %w", id, ErrNotFound)
}

// OrderNotFound wraps ErrNotFound for an order id.
func OrderNotFound(id string) error {
	return fmt.Errorf("order %q: %w", id, ErrNotFound)
}
