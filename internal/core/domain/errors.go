package domain

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrDuplicateBarcode = errors.New("barcode already exists")
	ErrStorage          = errors.New("storage failure")
)

// A ValidationError rejects malformed input before any write happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// A ProductNotFoundError names the cart item missing from inventory.
type ProductNotFoundError struct {
	ItemName string
}

func (e ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %q not found in inventory", e.ItemName)
}

func (e ProductNotFoundError) Is(target error) bool {
	return target == ErrProductNotFound
}

// An InsufficientStockError rejects a checkout requesting more than the
// available quantity. The checkout is all-or-nothing, nothing is clamped.
type InsufficientStockError struct {
	ItemName  string
	Available float64
	Requested float64
}

func (e InsufficientStockError) Error() string {
	return fmt.Sprintf(
		"insufficient stock for %q: available %.2f, requested %.2f",
		e.ItemName, e.Available, e.Requested,
	)
}
