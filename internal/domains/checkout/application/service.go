package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	accountsdomain "github.com/Apurer/storefront/internal/domains/accounts/domain"
	cartdomain "github.com/Apurer/storefront/internal/domains/cart/domain"
	cartports "github.com/Apurer/storefront/internal/domains/cart/ports"
	"github.com/Apurer/storefront/internal/domains/checkout/domain"
	"github.com/Apurer/storefront/internal/domains/checkout/ports"
	ordersdomain "github.com/Apurer/storefront/internal/domains/orders/domain"
)

// ProfileSource loads the profile checkout validates.
type ProfileSource interface {
	Profile(ctx context.Context, uid string) (*accountsdomain.Profile, error)
}

// OrderReader loads orders for idempotent replays.
type OrderReader interface {
	Get(ctx context.Context, orderID string) (*ordersdomain.Order, error)
}

// Service runs readiness checks and the payment-then-order sequence.
type Service struct {
	profiles    ProfileSource
	cart        cartports.Service
	orders      OrderReader
	placer      ports.OrderPlacer
	idempotency ports.IdempotencyStore
	logger      *slog.Logger
}

type Option func(*Service)

// WithIdempotencyStore enables replay of checkouts that carry an idempotency key.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idempotency = store
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(profiles ProfileSource, cart cartports.Service, orders OrderReader, placer ports.OrderPlacer, opts ...Option) *Service {
	s := &Service{
		profiles: profiles,
		cart:     cart,
		orders:   orders,
		placer:   placer,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Readiness fails closed: login, then contact details, then delivery address,
// then a non-empty remote cart.
func (s *Service) Readiness(ctx context.Context, identity *accountsdomain.Identity) (*domain.Readiness, error) {
	if identity == nil || strings.TrimSpace(identity.UID) == "" {
		return nil, domain.ErrLoginRequired
	}
	profile, err := s.profiles.Profile(ctx, identity.UID)
	if err != nil {
		return nil, err
	}
	if missing := profile.MissingContactFields(); len(missing) > 0 {
		return nil, &domain.ProfileIncompleteError{Step: domain.StepContactDetails, Missing: missing}
	}
	if missing := profile.MissingAddressFields(); len(missing) > 0 {
		return nil, &domain.ProfileIncompleteError{Step: domain.StepDeliveryAddress, Missing: missing}
	}

	items, err := s.cart.Items(ctx, identity.UID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	state := cartdomain.State{Hydrated: true}
	for _, item := range items {
		state.Items = append(state.Items, item.ToItem())
	}
	return &domain.Readiness{
		Profile: profile,
		Items:   items,
		Summary: cartdomain.Summarize(state),
	}, nil
}

// Checkout authorises payment and places the order. A repeated idempotency
// key returns the order of the first attempt without charging again.
func (s *Service) Checkout(ctx context.Context, identity *accountsdomain.Identity, req ports.PaymentRequest) (*domain.Confirmation, error) {
	if identity == nil || strings.TrimSpace(identity.UID) == "" {
		return nil, domain.ErrLoginRequired
	}
	method, err := domain.ParsePaymentMethod(req.Method)
	if err != nil {
		return nil, mapError(err)
	}
	key := strings.TrimSpace(req.IdempotencyKey)
	var fingerprint string
	if key != "" && s.idempotency != nil {
		fingerprint, err = FingerprintCheckout(identity.UID, method)
		if err != nil {
			return nil, err
		}
		if replay, err := s.replay(ctx, key, fingerprint); replay != nil || err != nil {
			return replay, err
		}
	}

	readiness, err := s.Readiness(ctx, identity)
	if err != nil {
		return nil, err
	}
	placement, err := s.placer.Place(ctx, ports.PlacementRequest{
		UID:            identity.UID,
		Items:          readiness.Lines(),
		PaymentMethod:  method,
		Amount:         readiness.Summary.Total,
		IdempotencyKey: key,
	})
	if err != nil {
		return nil, err
	}

	if fingerprint != "" {
		_, err := s.idempotency.Save(ctx, ports.IdempotencyRecord{
			Key:         key,
			RequestHash: fingerprint,
			OrderID:     placement.Order.ID,
		})
		if err != nil {
			// The order exists; only future replays are affected.
			s.logger.WarnContext(ctx, "failed to record checkout idempotency key",
				slog.String("order.id", placement.Order.ID), slog.String("error", err.Error()))
		}
	}
	return &domain.Confirmation{Order: placement.Order, Payment: placement.Payment}, nil
}

func (s *Service) replay(ctx context.Context, key, fingerprint string) (*domain.Confirmation, error) {
	record, err := s.idempotency.Get(ctx, key)
	if err != nil || record == nil {
		return nil, err
	}
	if record.RequestHash != fingerprint {
		return nil, ports.ErrIdempotencyConflict
	}
	order, err := s.orders.Get(ctx, record.OrderID)
	if err != nil {
		if errors.Is(err, ordersdomain.ErrNotFound) {
			return nil, ports.ErrIdempotencyConflict
		}
		return nil, err
	}
	return &domain.Confirmation{Order: order, Replayed: true}, nil
}

var _ ports.Service = (*Service)(nil)
