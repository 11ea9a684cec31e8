package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for a bad format, threshold, output directory or override.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a note or run does not exist.
	ErrNotFound = errors.New("not found")
	// ErrExternalService is returned when the notes source cannot be read.
	ErrExternalService = errors.New("external service error")
)

// ValidationError reports which export request field was rejected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

