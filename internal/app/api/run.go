package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	storefrontserver "github.com/Apurer/storefront/go"

	accountsapp "github.com/Apurer/storefront/internal/domains/accounts/application"
	cartobs "github.com/Apurer/storefront/internal/domains/cart/adapters/observability"
	cartapp "github.com/Apurer/storefront/internal/domains/cart/application"
	catalogapp "github.com/Apurer/storefront/internal/domains/catalog/application"
	"github.com/Apurer/storefront/internal/domains/checkout/adapters/payment"
	checkoutworkflows "github.com/Apurer/storefront/internal/domains/checkout/adapters/workflows"
	checkoutapp "github.com/Apurer/storefront/internal/domains/checkout/application"
	checkoutports "github.com/Apurer/storefront/internal/domains/checkout/ports"
	ordersobs "github.com/Apurer/storefront/internal/domains/orders/adapters/observability"
	ordersapp "github.com/Apurer/storefront/internal/domains/orders/application"
	ordersports "github.com/Apurer/storefront/internal/domains/orders/ports"
	platformobservability "github.com/Apurer/storefront/internal/platform/observability"
)

const serviceName = "storefront-api"

// Run boots the storefront HTTP API with observability, stores, and workflows wired.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	stores, cleanupStores, err := BuildStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanupStores()

	accounts := accountsapp.NewService(stores.Profiles, stores.Sessions)
	catalog := catalogapp.NewService(stores.Catalog)
	cart := cartobs.New(
		cartapp.NewService(stores.Tx),
		cartobs.WithLogger(logger),
		cartobs.WithTracer(instruments.Tracer("internal.cart.application")),
		cartobs.WithMeter(instruments.Meter("internal.cart.application")),
	)
	orders := ordersobs.New(
		ordersapp.NewService(stores.Tx, stores.Orders, stores.Catalog),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	merger := cartapp.NewMerger(cart, stores.Guests, stores.Catalog,
		cartapp.WithMergeLogger(logger),
		cartapp.WithEnrichConcurrency(cfg.MergeEnrichConcurrency),
	)
	sessions := cartapp.NewSessions(cartapp.Dependencies{
		Remote: cart,
		Guests: stores.Guests,
		Merger: merger,
		Logger: logger,
	}, cartapp.WithIdleTTL(cfg.GuestCartTTL))
	defer sessions.Close()

	placer := buildOrderPlacer(cfg, instruments, orders)
	if closer, ok := placer.(interface{ Close() }); ok {
		defer closer.Close()
	}
	checkout := checkoutapp.NewService(accounts, cart, orders, placer,
		checkoutapp.WithIdempotencyStore(stores.Idempotency),
		checkoutapp.WithLogger(logger),
	)

	handlers := storefrontserver.ApiHandleFunctions{
		SessionAPI:  storefrontserver.NewSessionAPI(accounts, sessions, cfg.DevSignIn),
		ProductAPI:  storefrontserver.NewProductAPI(catalog),
		CartAPI:     storefrontserver.NewCartAPI(sessions, catalog),
		ProfileAPI:  storefrontserver.NewProfileAPI(accounts),
		CheckoutAPI: storefrontserver.NewCheckoutAPI(checkout, sessions),
		OrderAPI:    storefrontserver.NewOrderAPI(orders),
	}
	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	storefrontserver.NewRouterWithGinEngine(router, handlers, accounts)

	addr := ":" + cfg.Port
	server := &http.Server{Addr: addr, Handler: router}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront API listening", slog.String("addr", addr))
		errCh <- server.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("storefront API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("storefront API shutting down")
		return server.Shutdown(shutdownCtx)
	}
}

type temporalPlacer struct {
	*checkoutworkflows.TemporalOrderPlacer
	client client.Client
}

func (p temporalPlacer) Close() { p.client.Close() }

// buildOrderPlacer prefers the Temporal workflow and falls back to placing
// orders inline when Temporal is disabled or unreachable.
func buildOrderPlacer(cfg Config, instruments *platformobservability.Instruments, orders ordersports.Service) checkoutports.OrderPlacer {
	logger := effectiveLogger(instruments)
	temporalClient, err := ConnectTemporalClient(cfg, instruments, "temporal-client")
	if err != nil {
		logger.Warn("Temporal workflows unavailable, placing orders inline", slog.String("error", err.Error()))
		payments := payment.NewSimulated(payment.WithDelay(cfg.PaymentDelay))
		return checkoutworkflows.NewInlineOrderPlacer(payments, orders)
	}
	logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	return temporalPlacer{
		TemporalOrderPlacer: checkoutworkflows.NewTemporalOrderPlacer(temporalClient),
		client:              temporalClient,
	}
}

// ConnectTemporalClient dials Temporal with tracing and the process logger.
func ConnectTemporalClient(cfg Config, instruments *platformobservability.Instruments, tracerName string) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer(tracerName)
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
