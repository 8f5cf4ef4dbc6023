package checkout

import (
	"github.com/google/uuid"
	"go.temporal.io/sdk/workflow"

	checkoutports "github.com/Apurer/storefront/internal/domains/checkout/ports"
	"github.com/Apurer/storefront/internal/platform/temporal/sequences"
)

const (
	// OrderPlacementWorkflowName is the public identifier for registering the workflow.
	OrderPlacementWorkflowName = "checkout.workflows.OrderPlacement"
	// OrderPlacementTaskQueue is the queue consumed by the worker processing checkouts.
	OrderPlacementTaskQueue = "ORDER_PLACEMENT"
)

// OrderPlacementWorkflowInput captures one checkout attempt.
type OrderPlacementWorkflowInput struct {
	Request checkoutports.PlacementRequest
	TraceID string
}

// OrderPlacementWorkflow authorises payment and places the order. The order id
// is recorded once so activity retries and workflow replays reuse it.
func OrderPlacementWorkflow(ctx workflow.Context, input OrderPlacementWorkflowInput) (*checkoutports.Placement, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("OrderPlacementWorkflow started", withTraceID(input.TraceID, "uid", input.Request.UID)...)

	var orderID string
	encoded := workflow.SideEffect(ctx, func(workflow.Context) interface{} {
		return uuid.NewString()
	})
	if err := encoded.Get(&orderID); err != nil {
		return nil, err
	}

	placement, err := sequences.RunOrderPlacementSequence(ctx, sequences.OrderPlacementInput{OrderID: orderID, Request: input.Request})
	if err != nil {
		logger.Error("OrderPlacementWorkflow failed", withTraceID(input.TraceID, "orderId", orderID, "error", err)...)
		return nil, err
	}
	logger.Info("OrderPlacementWorkflow completed", withTraceID(input.TraceID, "orderId", orderID)...)
	return placement, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
