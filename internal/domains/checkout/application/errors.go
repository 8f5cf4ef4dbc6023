package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/storefront/internal/domains/checkout/domain"
)

// ErrInvalidInput signals the checkout request itself was malformed.
var ErrInvalidInput = errors.New("invalid checkout input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrPaymentMethodRequired) ||
		errors.Is(err, domain.ErrUnsupportedPayment) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
