// ABOUTME: Custom error types for the core business logic
// ABOUTME: Provides structured errors for configuration and external collaborators

package errors

import (
	"errors"
	"fmt"
)

// ValidationError represents a configuration or input validation error.
// Validation errors at startup are fatal to the process.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ExternalError represents a failure reported by an external collaborator
// (the rendering session, an HTTP fetch, or the document store).
type ExternalError struct {
	Collaborator string
	StatusCode   int
	Message      string
}

// Error implements the error interface
func (e *ExternalError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s error: %d - %s", e.Collaborator, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Collaborator, e.Message)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsExternal checks if an error is an ExternalError
func IsExternal(err error) bool {
	var externalErr *ExternalError
	return errors.As(err, &externalErr)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
