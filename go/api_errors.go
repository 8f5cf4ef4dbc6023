package storefrontserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	accountsapp "github.com/Apurer/storefront/internal/domains/accounts/application"
	accountsdomain "github.com/Apurer/storefront/internal/domains/accounts/domain"
	cartapp "github.com/Apurer/storefront/internal/domains/cart/application"
	cartdomain "github.com/Apurer/storefront/internal/domains/cart/domain"
	catalogapp "github.com/Apurer/storefront/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/storefront/internal/domains/catalog/domain"
	checkoutapp "github.com/Apurer/storefront/internal/domains/checkout/application"
	checkoutdomain "github.com/Apurer/storefront/internal/domains/checkout/domain"
	checkoutports "github.com/Apurer/storefront/internal/domains/checkout/ports"
	ordersapp "github.com/Apurer/storefront/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/storefront/internal/domains/orders/domain"
	apierrors "github.com/Apurer/storefront/internal/shared/errors"
	"github.com/Apurer/storefront/internal/shared/txstore"
)

var responder = apierrors.NewChainedResponder("",
	mapAccountsError,
	mapCatalogError,
	mapCartError,
	mapOrdersError,
	mapCheckoutError,
	mapStoreError,
)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	responder.Respond(c, problem)
}

// respondError sends err through the domain mappers; unknown errors become 500.
func respondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

func badRequest(c *gin.Context, err error) {
	respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}

func mapAccountsError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, accountsdomain.ErrNotAuthenticated):
		return apierrors.ErrUnauthorized.WithDetail(err.Error()), true
	case errors.Is(err, accountsdomain.ErrForbidden):
		return apierrors.ErrForbidden.WithDetail(err.Error()), true
	case errors.Is(err, accountsapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapCatalogError(err error) (apierrors.ProblemDetail, bool) {
	var stock *catalogdomain.InsufficientStockError
	if errors.As(err, &stock) {
		return apierrors.NewInsufficientStockProblem(stock.Error(), stock.ProductID, stock.Requested, stock.Available), true
	}
	var inactive *catalogdomain.ProductInactiveError
	if errors.As(err, &inactive) {
		return apierrors.ErrProductInactive.WithDetail(inactive.Error()).WithExtension("productId", inactive.ProductID), true
	}
	switch {
	case errors.Is(err, catalogdomain.ErrProductNotFound):
		return apierrors.ErrProductNotFound.WithDetail(err.Error()), true
	case errors.Is(err, catalogdomain.ErrInvalidPrice):
		return apierrors.ErrUnprocessable.WithDetail(err.Error()), true
	case errors.Is(err, catalogapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapCartError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, cartdomain.ErrItemNotInCart):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, cartapp.ErrMergeInProgress):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, cartapp.ErrControllerClosed):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, cartapp.ErrMissingSessionKey):
		return apierrors.ErrBadRequest.WithDetail("X-Guest-Cart header or bearer token required"), true
	case errors.Is(err, cartapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapOrdersError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, ordersdomain.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, ordersdomain.ErrOrderIDTaken):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapCheckoutError(err error) (apierrors.ProblemDetail, bool) {
	var incomplete *checkoutdomain.ProfileIncompleteError
	if errors.As(err, &incomplete) {
		return apierrors.ErrProfileIncomplete.
			WithDetail(incomplete.Error()).
			WithExtension("step", string(incomplete.Step)).
			WithExtension("missing", incomplete.Missing), true
	}
	switch {
	case errors.Is(err, checkoutdomain.ErrEmptyCart):
		return apierrors.ErrUnprocessable.WithDetail(err.Error()), true
	case errors.Is(err, checkoutdomain.ErrPaymentDeclined):
		return apierrors.ProblemDetail{
			Type:   "/problems/payment-declined",
			Title:  "Payment Declined",
			Status: http.StatusPaymentRequired,
			Detail: err.Error(),
		}, true
	case errors.Is(err, checkoutports.ErrIdempotencyConflict):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, checkoutapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(unwrapDetail(err)), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapStoreError(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, txstore.ErrConflict) {
		return apierrors.ErrTransactionConflict, true
	}
	return apierrors.ProblemDetail{}, false
}

// unwrapDetail drops the "invalid ... input: " prefix when the cause is a
// message meant for customers.
func unwrapDetail(err error) string {
	switch {
	case errors.Is(err, checkoutdomain.ErrPaymentMethodRequired):
		return checkoutdomain.ErrPaymentMethodRequired.Error()
	case errors.Is(err, checkoutdomain.ErrUnsupportedPayment):
		return checkoutdomain.ErrUnsupportedPayment.Error()
	}
	return err.Error()
}
