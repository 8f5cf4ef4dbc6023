package storefrontserver

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	cartapp "github.com/Apurer/storefront/internal/domains/cart/application"
	checkoutports "github.com/Apurer/storefront/internal/domains/checkout/ports"
)

// CheckoutAPI runs readiness checks and places orders for signed-in accounts.
type CheckoutAPI struct {
	checkout checkoutports.Service
	carts    *cartapp.Sessions
}

func NewCheckoutAPI(checkout checkoutports.Service, carts *cartapp.Sessions) CheckoutAPI {
	return CheckoutAPI{checkout: checkout, carts: carts}
}

// Get /v1/checkout/readiness
func (api *CheckoutAPI) Readiness(c *gin.Context) {
	readiness, err := api.checkout.Readiness(c.Request.Context(), identityFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromReadiness(readiness))
}

// Post /v1/checkout
// Authorises payment and places the order. Idempotency-Key makes retries safe.
func (api *CheckoutAPI) Checkout(c *gin.Context) {
	var payload CheckoutRequest
	if err := c.ShouldBindJSON(&payload); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	confirmation, err := api.checkout.Checkout(ctx, identityFrom(c), checkoutports.PaymentRequest{
		Method:         payload.PaymentMethod,
		IdempotencyKey: c.GetHeader(HeaderIdempotencyKey),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	// The order transaction already emptied the remote cart.
	if ctrl, ok := api.carts.Get(uidFrom(c)); ok {
		ctrl.ClearLocal(ctx)
	}
	status := http.StatusCreated
	if confirmation.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, fromConfirmation(confirmation))
}
