package utils

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by services when a lookup matches nothing.
var ErrNotFound = errors.New("record not found")

// ValidationError carries a field name and a human-readable message. Every
// business-rule violation surfaces as this single kind.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err is a ValidationError and returns it.
func IsValidationError(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}
