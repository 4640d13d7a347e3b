package model

import "errors"

// ErrInvalidInput marks input the engines refuse to compute on.
// Callers should match it with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError describes which field was rejected and why.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Is makes every ValidationError match ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
