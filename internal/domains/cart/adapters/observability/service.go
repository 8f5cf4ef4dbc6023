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

	cartdomain "github.com/Apurer/storefront/internal/domains/cart/domain"
	cartports "github.com/Apurer/storefront/internal/domains/cart/ports"
	"github.com/Apurer/storefront/internal/shared/txstore"
)

const tracerName = "github.com/Apurer/storefront/internal/domains/cart/adapters/observability/service"

// Service decorates the remote cart service with tracing, logging, and metrics.
type Service struct {
	inner   cartports.Service
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

// New wraps the core cart service.
func New(inner cartports.Service, opts ...Option) cartports.Service {
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

func (s *Service) Add(ctx context.Context, uid, productID string, qty int) (*cartdomain.RemoteItem, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.Add", trace.WithAttributes(itemAttrs(uid, productID, qty)...))
	defer span.End()

	result, err := s.inner.Add(ctx, uid, productID, qty)
	if err != nil {
		return nil, s.handleError(ctx, span, "add", err, "failed to add cart item", slog.String("user.id", uid), slog.String("product.id", productID))
	}
	s.metrics.recordMutation(ctx, "add")
	s.logInfo(ctx, "cart item added", slog.String("user.id", uid), slog.String("product.id", productID), slog.Int("quantity", result.Qty))
	return result, nil
}

func (s *Service) UpdateQty(ctx context.Context, uid, productID string, qty int) (*cartdomain.RemoteItem, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.UpdateQty", trace.WithAttributes(itemAttrs(uid, productID, qty)...))
	defer span.End()

	result, err := s.inner.UpdateQty(ctx, uid, productID, qty)
	if err != nil {
		return nil, s.handleError(ctx, span, "update", err, "failed to update cart item", slog.String("user.id", uid), slog.String("product.id", productID))
	}
	s.metrics.recordMutation(ctx, "update")
	s.logInfo(ctx, "cart item updated", slog.String("user.id", uid), slog.String("product.id", productID), slog.Int("quantity", qty))
	return result, nil
}

func (s *Service) Remove(ctx context.Context, uid, productID string) error {
	ctx, span := s.tracer.Start(ctx, "CartService.Remove", trace.WithAttributes(attribute.String("user.id", uid), attribute.String("product.id", productID)))
	defer span.End()

	if err := s.inner.Remove(ctx, uid, productID); err != nil {
		return s.handleError(ctx, span, "remove", err, "failed to remove cart item", slog.String("user.id", uid), slog.String("product.id", productID))
	}
	s.metrics.recordMutation(ctx, "remove")
	s.logInfo(ctx, "cart item removed", slog.String("user.id", uid), slog.String("product.id", productID))
	return nil
}

func (s *Service) Clear(ctx context.Context, uid string) error {
	ctx, span := s.tracer.Start(ctx, "CartService.Clear", trace.WithAttributes(attribute.String("user.id", uid)))
	defer span.End()

	if err := s.inner.Clear(ctx, uid); err != nil {
		return s.handleError(ctx, span, "clear", err, "failed to clear cart", slog.String("user.id", uid))
	}
	s.metrics.recordMutation(ctx, "clear")
	s.logInfo(ctx, "cart cleared", slog.String("user.id", uid))
	return nil
}

func (s *Service) Items(ctx context.Context, uid string) ([]*cartdomain.RemoteItem, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.Items", trace.WithAttributes(attribute.String("user.id", uid)))
	defer span.End()

	result, err := s.inner.Items(ctx, uid)
	if err != nil {
		return nil, s.handleError(ctx, span, "items", err, "failed to load cart", slog.String("user.id", uid))
	}
	span.SetAttributes(attribute.Int("cart.items", len(result)))
	return result, nil
}

func itemAttrs(uid, productID string, qty int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("user.id", uid),
		attribute.String("product.id", productID),
		attribute.Int("cart.quantity", qty),
	}
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

func (s *Service) handleError(ctx context.Context, span trace.Span, op string, err error, msg string, attrs ...slog.Attr) error {
	if errors.Is(err, txstore.ErrConflict) {
		s.metrics.recordConflict(ctx, op)
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	mutations metric.Int64Counter
	conflicts metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	mutations, _ := m.Int64Counter("cart.service.mutations", metric.WithDescription("Number of committed cart mutations"))
	conflicts, _ := m.Int64Counter("cart.service.conflicts", metric.WithDescription("Cart mutations that exhausted their transaction retries"))
	return serviceMetrics{mutations: mutations, conflicts: conflicts}
}

func (m serviceMetrics) recordMutation(ctx context.Context, op string) {
	if m.mutations != nil {
		m.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("cart.operation", op)))
	}
}

func (m serviceMetrics) recordConflict(ctx context.Context, op string) {
	if m.conflicts != nil {
		m.conflicts.Add(ctx, 1, metric.WithAttributes(attribute.String("cart.operation", op)))
	}
}

var _ cartports.Service = (*Service)(nil)
