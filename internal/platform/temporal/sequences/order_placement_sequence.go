package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	checkoutdomain "github.com/Apurer/storefront/internal/domains/checkout/domain"
	checkoutports "github.com/Apurer/storefront/internal/domains/checkout/ports"
	ordersdomain "github.com/Apurer/storefront/internal/domains/orders/domain"
	ordersports "github.com/Apurer/storefront/internal/domains/orders/ports"
	checkoutactivities "github.com/Apurer/storefront/internal/platform/temporal/activities/checkout"
)

// OrderPlacementInput is the checkout request with the order id fixed by the workflow.
type OrderPlacementInput struct {
	OrderID string
	Request checkoutports.PlacementRequest
}

// RunOrderPlacementSequence authorises payment, then places the order. Payment
// is not rolled back when placement fails.
func RunOrderPlacementSequence(ctx workflow.Context, input OrderPlacementInput) (*checkoutports.Placement, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order placement sequence started", "orderId", input.OrderID, "uid", input.Request.UID)
	paymentOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    5 * time.Second,
			MaximumAttempts:    3,
		},
	}
	placeOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}

	intent := checkoutdomain.PaymentIntent{
		UID:       input.Request.UID,
		Method:    input.Request.PaymentMethod,
		Amount:    input.Request.Amount,
		Reference: input.OrderID,
	}
	var auth checkoutdomain.Authorization
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, paymentOptions), checkoutactivities.AuthorizePaymentActivityName, intent).Get(ctx, &auth)
	if err != nil {
		logger.Error("order placement sequence payment failed", "orderId", input.OrderID, "error", err)
		return nil, err
	}
	logger.Info("order placement sequence payment authorized", "orderId", input.OrderID, "paymentId", auth.ID)

	placeInput := ordersports.PlaceOrderInput{
		UID:           input.Request.UID,
		Items:         input.Request.Items,
		PaymentMethod: string(input.Request.PaymentMethod),
		OrderID:       input.OrderID,
	}
	var order ordersdomain.Order
	err = workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, placeOptions), checkoutactivities.PlaceOrderActivityName, placeInput).Get(ctx, &order)
	if err != nil {
		logger.Error("order placement sequence failed", "orderId", input.OrderID, "error", err)
		return nil, err
	}
	logger.Info("order placement sequence completed", "orderId", order.ID)
	return &checkoutports.Placement{Order: &order, Payment: &auth}, nil
}
