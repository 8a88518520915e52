package repository

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by all repositories. Handlers map these onto
// HTTP statuses; nothing below the repository layer knows about HTTP.
var (
	ErrNotFound          = errors.New("record not found")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrEmailTaken        = errors.New("email already taken")
	ErrProductReferenced = errors.New("product is referenced by existing orders")
)

// UnknownProductError reports an order item referencing a product that
// does not exist.
type UnknownProductError struct {
	ProductID int64
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("unknown product %d", e.ProductID)
}

// InvalidTransitionError reports a disallowed order status change.
type InvalidTransitionError struct {
	From, To string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot change order status from %q to %q", e.From, e.To)
}
