package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict on create.
	ErrAlreadyExists = errors.New("already exists")
	// ErrForbidden indicates the caller does not own the entity or lacks the role.
	ErrForbidden = errors.New("forbidden")
	// ErrEmptyCart indicates order placement was attempted on a cart with no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidTransition indicates a status change outside the allowed table.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrAlreadyCancelled indicates a second cancel on an already cancelled order.
	ErrAlreadyCancelled = errors.New("order already cancelled")
)

// ValidationError rejects malformed input before any side effect.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// InsufficientStockError names the product whose reservation failed.
// Placement guarantees no partial stock decrement is left behind when
// this is returned.
type InsufficientStockError struct {
	ProductID string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s", e.ProductID)
}

// ReservationRollbackError is returned when a compensating stock release
// during placement itself fails. Stock is understated until an operator
// intervenes, so this must never be swallowed.
type ReservationRollbackError struct {
	ProductID string
	Err       error
}

func (e *ReservationRollbackError) Error() string {
	return fmt.Sprintf("stock rollback failed for product %s: %v", e.ProductID, e.Err)
}

func (e *ReservationRollbackError) Unwrap() error {
	return e.Err
}
