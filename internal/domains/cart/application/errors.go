package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/storefront/internal/domains/cart/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid cart input")
	// ErrMergeInProgress rejects a sign-in while the previous merge is still running.
	ErrMergeInProgress = errors.New("cart merge already in progress")
	// ErrControllerClosed is returned by a controller after Close.
	ErrControllerClosed = errors.New("cart session closed")
	// ErrMissingSessionKey is returned when neither a guest key nor an account is known.
	ErrMissingSessionKey = errors.New("guest cart key is required")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrInvalidProductID) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
