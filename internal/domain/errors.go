package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not_found")
	ErrForbidden     = errors.New("forbidden")
	ErrTerminalOrder = errors.New("terminal_order")
	ErrValidation    = errors.New("validation error")
)

// ValidationError names the offending field and value; it matches ErrValidation.
type ValidationError struct {
	Field string
	Value any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func Invalid(field string, value any) error {
	return &ValidationError{Field: field, Value: value}
}
