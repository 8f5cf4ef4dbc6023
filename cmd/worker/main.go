package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/storefront/internal/app/api"
	"github.com/Apurer/storefront/internal/domains/checkout/adapters/payment"
	ordersobs "github.com/Apurer/storefront/internal/domains/orders/adapters/observability"
	ordersapp "github.com/Apurer/storefront/internal/domains/orders/application"
	platformobservability "github.com/Apurer/storefront/internal/platform/observability"
	checkoutactivities "github.com/Apurer/storefront/internal/platform/temporal/activities/checkout"
	checkoutworkflows "github.com/Apurer/storefront/internal/platform/temporal/workflows/checkout"
)

func main() {
	ctx := context.Background()
	const serviceName = "storefront-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := api.LoadConfig()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.TemporalDisabled {
		logger.Warn("TEMPORAL_DISABLED is set, worker has nothing to do")
		return
	}
	stores, cleanupStores, err := api.BuildStores(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to configure stores", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanupStores()
	if stores.DB == nil {
		logger.Warn("worker running on in-memory stores, orders will not be visible to the API")
	}

	orders := ordersobs.New(
		ordersapp.NewService(stores.Tx, stores.Orders, stores.Catalog),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	activities := checkoutactivities.NewActivities(payment.NewSimulated(payment.WithDelay(cfg.PaymentDelay)), orders)

	temporalClient, err := api.ConnectTemporalClient(cfg, instruments, "temporal-worker")
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, checkoutworkflows.OrderPlacementTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(checkoutworkflows.OrderPlacementWorkflow, workflow.RegisterOptions{Name: checkoutworkflows.OrderPlacementWorkflowName})
	w.RegisterActivityWithOptions(activities.AuthorizePayment, activity.RegisterOptions{Name: checkoutactivities.AuthorizePaymentActivityName})
	w.RegisterActivityWithOptions(activities.PlaceOrder, activity.RegisterOptions{Name: checkoutactivities.PlaceOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", checkoutworkflows.OrderPlacementTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
