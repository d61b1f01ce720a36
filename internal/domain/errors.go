package domain

import "errors"

// ErrNotFound is returned when no event matches the given id.
var ErrNotFound = errors.New("event not found")

// ValidationError reports malformed or missing client input. It is always
// detected before the store is touched.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError returns a *ValidationError with the given message.
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// StoreError wraps a persistence failure. Error() returns only the generic
// message; the cause is reachable through Unwrap for logging.
type StoreError struct {
	Message string
	Err     error
}

func (e *StoreError) Error() string { return e.Message }

func (e *StoreError) Unwrap() error { return e.Err }
