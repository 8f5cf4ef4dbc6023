package checkout

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	checkoutdomain "github.com/Apurer/storefront/internal/domains/checkout/domain"
	checkoutports "github.com/Apurer/storefront/internal/domains/checkout/ports"
	ordersdomain "github.com/Apurer/storefront/internal/domains/orders/domain"
	ordersports "github.com/Apurer/storefront/internal/domains/orders/ports"
)

const (
	// AuthorizePaymentActivityName approves the simulated payment for a checkout.
	AuthorizePaymentActivityName = "checkout.activities.AuthorizePayment"
	// PlaceOrderActivityName runs the stock-decrementing order transaction.
	PlaceOrderActivityName = "checkout.activities.PlaceOrder"
)

// Activities groups the checkout steps executed by the order placement workflow.
type Activities struct {
	payments checkoutports.PaymentAuthorizer
	orders   ordersports.Service
}

// NewActivities wires the checkout collaborators into the Temporal activities bundle.
func NewActivities(payments checkoutports.PaymentAuthorizer, orders ordersports.Service) *Activities {
	return &Activities{payments: payments, orders: orders}
}

// AuthorizePayment asks the payment authoriser to approve the intent.
func (a *Activities) AuthorizePayment(ctx context.Context, intent checkoutdomain.PaymentIntent) (*checkoutdomain.Authorization, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.payments == nil {
		logger.Error("payment activity not initialized", "uid", intent.UID)
		return nil, errors.New("payment activity not initialized")
	}
	logger.Info("AuthorizePayment activity started", "uid", intent.UID, "method", string(intent.Method))
	auth, err := a.payments.Authorize(ctx, intent)
	if err != nil {
		logger.Error("AuthorizePayment activity failed", "uid", intent.UID, "error", err)
		return nil, EncodeError(err)
	}
	logger.Info("AuthorizePayment activity completed", "uid", intent.UID, "paymentId", auth.ID)
	return auth, nil
}

// PlaceOrder places the order. Retries reuse input.OrderID, so a commit that
// was not acknowledged is returned instead of placed twice.
func (a *Activities) PlaceOrder(ctx context.Context, input ordersports.PlaceOrderInput) (*ordersdomain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.orders == nil {
		logger.Error("order activity not initialized", "orderId", input.OrderID)
		return nil, errors.New("order activity not initialized")
	}
	logger.Info("PlaceOrder activity started", "orderId", input.OrderID, "uid", input.UID)
	order, err := a.orders.PlaceOrder(ctx, input)
	if err != nil {
		logger.Error("PlaceOrder activity failed", "orderId", input.OrderID, "error", err)
		return nil, EncodeError(err)
	}
	logger.Info("PlaceOrder activity completed", "orderId", order.ID, "total", order.Total.StringFixed(2))
	return order, nil
}
