package observability

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	catalogdomain "github.com/Apurer/storefront/internal/domains/catalog/domain"
	ordersdomain "github.com/Apurer/storefront/internal/domains/orders/domain"
	ordersports "github.com/Apurer/storefront/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/storefront/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   ordersports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core orders service.
func New(inner ordersports.Service, opts ...Option) ordersports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.Default(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) PlaceOrder(ctx context.Context, input ordersports.PlaceOrderInput) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.PlaceOrder",
		trace.WithAttributes(attribute.String("user.id", input.UID), attribute.Int("order.lines", len(input.Items))))
	defer span.End()

	s.logInfo(ctx, "placing order", slog.String("user.id", input.UID), slog.Int("order.lines", len(input.Items)))
	result, err := s.inner.PlaceOrder(ctx, input)
	if err != nil {
		var stockErr *catalogdomain.InsufficientStockError
		if errors.As(err, &stockErr) {
			s.metrics.recordStockRejection(ctx, stockErr.ProductID)
		}
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.String("user.id", input.UID))
	}
	s.metrics.recordPlaced(ctx, result.PaymentMethod)
	span.SetAttributes(attribute.String("order.id", result.ID))
	s.logInfo(ctx, "order placed", slog.String("order.id", result.ID), slog.String("order.total", result.Total.StringFixed(2)))
	return result, nil
}

func (s *Service) UpdateStatus(ctx context.Context, orderID string, status ordersdomain.Status) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.UpdateStatus",
		trace.WithAttributes(attribute.String("order.id", orderID), attribute.String("order.status", string(status))))
	defer span.End()

	s.logInfo(ctx, "updating order status", slog.String("order.id", orderID), slog.String("status", string(status)))
	result, err := s.inner.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order status", slog.String("order.id", orderID))
	}
	return result, nil
}

func (s *Service) Get(ctx context.Context, orderID string) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.Get", trace.WithAttributes(attribute.String("order.id", orderID)))
	defer span.End()

	result, err := s.inner.Get(ctx, orderID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", orderID))
	}
	return result, nil
}

func (s *Service) List(ctx context.Context, filter ordersports.Filter) ([]*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.List",
		trace.WithAttributes(attribute.String("user.id", filter.UID), attribute.String("order.status", string(filter.Status))))
	defer span.End()

	result, err := s.inner.List(ctx, filter)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result, nil
}

func (s *Service) Dashboard(ctx context.Context) (*ordersdomain.Dashboard, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.Dashboard")
	defer span.End()

	s.logInfo(ctx, "building dashboard")
	result, err := s.inner.Dashboard(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to build dashboard")
	}
	span.SetAttributes(attribute.Int("orders.pending", result.PendingOrders), attribute.Int("products.low_stock", result.LowStockProducts))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	ordersPlaced    metric.Int64Counter
	stockRejections metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("orders.service.orders_placed", metric.WithDescription("Number of orders placed"))
	stockRejections, _ := m.Int64Counter("orders.service.stock_rejections", metric.WithDescription("Order placements rejected for insufficient stock"))
	return serviceMetrics{ordersPlaced: ordersPlaced, stockRejections: stockRejections}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, paymentMethod string) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1, metric.WithAttributes(attribute.String("order.payment_method", paymentMethod)))
	}
}

func (m serviceMetrics) recordStockRejection(ctx context.Context, productID string) {
	if m.stockRejections != nil {
		m.stockRejections.Add(ctx, 1, metric.WithAttributes(attribute.String("product.id", productID)))
	}
}

var _ ordersports.Service = (*Service)(nil)
