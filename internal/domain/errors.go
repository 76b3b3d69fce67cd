package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict on insert.
	ErrAlreadyExists = errors.New("already exists")
	// ErrForbidden indicates the actor lacks ownership or admin rights.
	ErrForbidden = errors.New("forbidden")

	// ErrStockChanged is returned when an atomic stock decrement lost a
	// race to a concurrent order. Transient: refresh cart and retry.
	ErrStockChanged = errors.New("stock changed, refresh cart and try again")

	// Lifecycle guard violations.
	ErrOrderCancelled   = errors.New("order is cancelled")
	ErrAlreadyCancelled = errors.New("order already cancelled")
	ErrOrderShipped     = errors.New("order already shipped, contact support")
	ErrPaymentRequired  = errors.New("order must be paid first")
	ErrNotShipped       = errors.New("order must be shipped first")
)

// InvalidCartError reports a malformed or empty cart submission.
type InvalidCartError struct {
	Reason string
}

func (e *InvalidCartError) Error() string {
	return "invalid cart: " + e.Reason
}

// ProductNotFoundError reports a cart reference to a product that no
// longer exists in the catalog.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return "product no longer exists: " + e.ProductID
}

// InsufficientStockError reports a requested quantity exceeding the
// currently-known stock for a product.
type InsufficientStockError struct {
	ProductID string
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %s: requested %d, available %d", e.Name, e.Requested, e.Available)
}
