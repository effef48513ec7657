package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrMissingCredential means the gateway secret key was never configured.
// It is fatal and surfaces at startup, not per request.
var ErrMissingCredential = errors.New("payment gateway secret key not configured")

// ErrDuplicateReference signals a unique-constraint collision on a locally
// generated reference. Callers may retry with a fresh reference.
var ErrDuplicateReference = errors.New("payment reference already exists")

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

type NotFoundError struct {
	Entity string
	Ref    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.Ref)
}

type InsufficientStockError struct {
	BookID    uuid.UUID
	Title     string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for book %q: requested %d, available %d", e.Title, e.Requested, e.Available)
}

type AmountMismatchError struct {
	Supplied float64
	Total    float64
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("payment amount %.2f does not match order total %.2f", e.Supplied, e.Total)
}

// GatewayError wraps any failure talking to the payment provider. Message
// holds the provider's text verbatim when one was returned.
type GatewayError struct {
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("payment gateway: %s: %v", e.Message, e.Err)
	}
	return "payment gateway: " + e.Message
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
