package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	checkoutdomain "github.com/Apurer/storefront/internal/domains/checkout/domain"
	"github.com/Apurer/storefront/internal/domains/checkout/ports"
	ordersports "github.com/Apurer/storefront/internal/domains/orders/ports"
	checkoutactivities "github.com/Apurer/storefront/internal/platform/temporal/activities/checkout"
	checkoutworkflows "github.com/Apurer/storefront/internal/platform/temporal/workflows/checkout"
)

var (
	_ ports.OrderPlacer = (*TemporalOrderPlacer)(nil)
	_ ports.OrderPlacer = (*InlineOrderPlacer)(nil)
)

// TemporalOrderPlacer runs order placement as a Temporal workflow.
type TemporalOrderPlacer struct {
	client    client.Client
	taskQueue string
}

// NewTemporalOrderPlacer wires a Temporal client into the placer.
func NewTemporalOrderPlacer(c client.Client) *TemporalOrderPlacer {
	return &TemporalOrderPlacer{client: c, taskQueue: checkoutworkflows.OrderPlacementTaskQueue}
}

// Place starts the order placement workflow and waits for its result. A
// second start with the same idempotency key joins the first run.
func (o *TemporalOrderPlacer) Place(ctx context.Context, req ports.PlacementRequest) (*ports.Placement, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal order placer not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := buildOrderPlacementWorkflowID(req, traceComponent)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		checkoutworkflows.OrderPlacementWorkflow,
		checkoutworkflows.OrderPlacementWorkflowInput{Request: req, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) && strings.TrimSpace(req.IdempotencyKey) != "" {
			existingRun := o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
			var placement ports.Placement
			if err := existingRun.Get(ctx, &placement); err != nil {
				return nil, checkoutactivities.DecodeError(err)
			}
			return &placement, nil
		}
		return nil, err
	}
	var placement ports.Placement
	if err := run.Get(ctx, &placement); err != nil {
		return nil, checkoutactivities.DecodeError(err)
	}
	return &placement, nil
}

// InlineOrderPlacer authorises payment and places the order in-process,
// useful for tests or dev fallbacks without Temporal.
type InlineOrderPlacer struct {
	payments ports.PaymentAuthorizer
	orders   ordersports.Service
}

// NewInlineOrderPlacer wraps the payment authoriser and orders service.
func NewInlineOrderPlacer(payments ports.PaymentAuthorizer, orders ordersports.Service) *InlineOrderPlacer {
	return &InlineOrderPlacer{payments: payments, orders: orders}
}

func (o *InlineOrderPlacer) Place(ctx context.Context, req ports.PlacementRequest) (*ports.Placement, error) {
	if o == nil || o.payments == nil || o.orders == nil {
		return nil, errors.New("inline order placer not configured")
	}
	auth, err := o.payments.Authorize(ctx, checkoutdomain.PaymentIntent{
		UID:       req.UID,
		Method:    req.PaymentMethod,
		Amount:    req.Amount,
		Reference: req.IdempotencyKey,
	})
	if err != nil {
		return nil, err
	}
	order, err := o.orders.PlaceOrder(ctx, ordersports.PlaceOrderInput{
		UID:           req.UID,
		Items:         req.Items,
		PaymentMethod: string(req.PaymentMethod),
	})
	if err != nil {
		return nil, err
	}
	return &ports.Placement{Order: order, Payment: auth}, nil
}

func buildOrderPlacementWorkflowID(req ports.PlacementRequest, traceComponent string) string {
	if key := strings.TrimSpace(req.IdempotencyKey); key != "" {
		return fmt.Sprintf("order-placement-idem-%s", hashIdempotencyKey(req.UID+"/"+key))
	}
	return fmt.Sprintf("order-placement-%s-%s", req.UID, traceComponent)
}

func hashIdempotencyKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	// First 16 hex chars keep workflow IDs readable while remaining deterministic.
	return hex.EncodeToString(sum[:8])
}

func workflowTraceComponent(ctx context.Context) string {
	traceComponent := workflowTraceID(ctx)
	if traceComponent != "" {
		return traceComponent
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	traceID := spanCtx.TraceID()
	if !traceID.IsValid() {
		return ""
	}
	return traceID.String()
}
