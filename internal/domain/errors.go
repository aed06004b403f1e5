package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates a missing entity.
type ErrNotFound struct {
	Entity string
	ID     string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found with ID: %s", e.Entity, e.ID)
}

// IsNotFound reports whether err wraps an ErrNotFound.
func IsNotFound(err error) bool {
	var nf *ErrNotFound
	return errors.As(err, &nf)
}

// ErrInvalidSignature is returned by ingestion when a subscription requires
// a signature and the request carries a missing or wrong one.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// InvalidPayloadError indicates a request body that is not valid JSON.
// The message carries the decoder's diagnostic.
type InvalidPayloadError struct {
	Message string
}

func (e *InvalidPayloadError) Error() string {
	return fmt.Sprintf("invalid JSON payload: %s", e.Message)
}

// ValidationError represents an error that occurs due to invalid input or parameters
type ValidationError struct {
	Message string
}

// Error implements the error interface
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a new validation error with the given message
func NewValidationError(message string) error {
	return ValidationError{
		Message: message,
	}
}
