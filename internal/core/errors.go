package core

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated means no usable credential is available; the caller must log in again.
	ErrUnauthenticated = errors.New("authentication required: please log in")

	// ErrSaveInProgress is returned when Save is called while a previous save has not finished.
	ErrSaveInProgress = errors.New("a save for this invoice is already in progress")

	// ErrItemNotFound is returned for a line item position outside the current store.
	ErrItemNotFound = errors.New("line item not found")

	// ErrNotFound is returned by backend services for unknown invoice or inventory ids.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientStock is returned when an invoice line exceeds the quantity on hand.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ValidationError blocks a save locally, before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// LastItemError is returned when removing the only remaining line item.
type LastItemError struct{}

func (e *LastItemError) Error() string {
	return "cannot remove the last line item"
}

// GatewayError is a non-success response from the backend. Message is the
// backend's own text and is shown to the user as-is.
type GatewayError struct {
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	return e.Message
}

// TransportError wraps a network-level failure talking to the backend.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("connection failed during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
