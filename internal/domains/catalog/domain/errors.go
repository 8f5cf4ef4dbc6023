package domain

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrProductInactive   = errors.New("product inactive")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidPrice      = errors.New("invalid product price")
)

// ProductInactiveError names the product that can no longer be purchased.
type ProductInactiveError struct {
	ProductID string
	Title     string
}

func (e *ProductInactiveError) Error() string {
	if e.Title == "" {
		return ErrProductInactive.Error()
	}
	return fmt.Sprintf("%s is inactive", e.Title)
}

func (e *ProductInactiveError) Is(target error) bool {
	return target == ErrProductInactive
}

// InsufficientStockError carries the requested and available quantities.
type InsufficientStockError struct {
	ProductID string
	Title     string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	if e.Title == "" {
		return fmt.Sprintf("%s: requested %d, available %d", ErrInsufficientStock, e.Requested, e.Available)
	}
	return fmt.Sprintf("%s only has %d left", e.Title, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// NotFound wraps ErrProductNotFound with the missing identifier.
func NotFound(id string) error {
	return fmt.Errorf("%w: %s", ErrProductNotFound, id)
}
