package domain

import (
	"errors"
	"fmt"
)

var (
	ErrItemNotInCart    = errors.New("item not in cart")
	ErrInvalidQuantity  = errors.New("qty must be positive")
	ErrInvalidProductID = errors.New("productId required")
)

// EnrichmentError reports a catalog lookup that failed while building the
// merged cart. It is logged and never returned to callers.
type EnrichmentError struct {
	ProductID string
	Err       error
}

func (e *EnrichmentError) Error() string {
	return fmt.Sprintf("enrich cart item %s: %v", e.ProductID, e.Err)
}

func (e *EnrichmentError) Unwrap() error {
	return e.Err
}
