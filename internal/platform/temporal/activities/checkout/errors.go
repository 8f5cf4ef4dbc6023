package checkout

import (
	"errors"

	"go.temporal.io/sdk/temporal"

	accountsdomain "github.com/Apurer/storefront/internal/domains/accounts/domain"
	catalogdomain "github.com/Apurer/storefront/internal/domains/catalog/domain"
	checkoutdomain "github.com/Apurer/storefront/internal/domains/checkout/domain"
	ordersapp "github.com/Apurer/storefront/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/storefront/internal/domains/orders/domain"
)

// Application error types carried across the workflow boundary.
const (
	ErrTypeInsufficientStock = "InsufficientStock"
	ErrTypeProductInactive   = "ProductInactive"
	ErrTypeProductNotFound   = "ProductNotFound"
	ErrTypeInvalidPrice      = "InvalidPrice"
	ErrTypePaymentDeclined   = "PaymentDeclined"
	ErrTypeInvalidOrder      = "InvalidOrder"
	ErrTypeNotAuthenticated  = "NotAuthenticated"
)

// EncodeError turns business failures into non-retryable application errors
// so the caller can rebuild the domain error. Anything else stays retryable.
func EncodeError(err error) error {
	if err == nil {
		return nil
	}
	var stockErr *catalogdomain.InsufficientStockError
	if errors.As(err, &stockErr) {
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInsufficientStock, err, *stockErr)
	}
	var inactiveErr *catalogdomain.ProductInactiveError
	if errors.As(err, &inactiveErr) {
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeProductInactive, err, *inactiveErr)
	}
	switch {
	case errors.Is(err, catalogdomain.ErrProductNotFound):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeProductNotFound, err)
	case errors.Is(err, catalogdomain.ErrInvalidPrice):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidPrice, err)
	case errors.Is(err, checkoutdomain.ErrPaymentDeclined):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypePaymentDeclined, err)
	case errors.Is(err, accountsdomain.ErrNotAuthenticated):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeNotAuthenticated, err)
	case errors.Is(err, ordersdomain.ErrNoItems),
		errors.Is(err, ordersdomain.ErrInvalidQuantity),
		errors.Is(err, ordersdomain.ErrInvalidProduct),
		errors.Is(err, ordersdomain.ErrMissingUser),
		errors.Is(err, ordersdomain.ErrOrderIDTaken):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidOrder, err)
	}
	return err
}

// DecodeError rebuilds the domain error from a workflow or activity failure.
// Errors without a known application type are returned unchanged.
func DecodeError(err error) error {
	var appErr *temporal.ApplicationError
	if err == nil || !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case ErrTypeInsufficientStock:
		var detail catalogdomain.InsufficientStockError
		if appErr.HasDetails() && appErr.Details(&detail) == nil {
			return &detail
		}
		return catalogdomain.ErrInsufficientStock
	case ErrTypeProductInactive:
		var detail catalogdomain.ProductInactiveError
		if appErr.HasDetails() && appErr.Details(&detail) == nil {
			return &detail
		}
		return catalogdomain.ErrProductInactive
	case ErrTypeProductNotFound:
		return &decodedError{msg: appErr.Message(), sentinel: catalogdomain.ErrProductNotFound}
	case ErrTypeInvalidPrice:
		return catalogdomain.ErrInvalidPrice
	case ErrTypePaymentDeclined:
		return &decodedError{msg: appErr.Message(), sentinel: checkoutdomain.ErrPaymentDeclined}
	case ErrTypeNotAuthenticated:
		return accountsdomain.ErrNotAuthenticated
	case ErrTypeInvalidOrder:
		return &decodedError{msg: appErr.Message(), sentinel: ordersapp.ErrInvalidInput}
	}
	return err
}

// decodedError keeps the original message while matching the domain sentinel.
type decodedError struct {
	msg      string
	sentinel error
}

func (e *decodedError) Error() string { return e.msg }

func (e *decodedError) Is(target error) bool { return target == e.sentinel }
