package payment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/storefront/internal/domains/checkout/domain"
	"github.com/Apurer/storefront/internal/domains/checkout/ports"
)

var _ ports.PaymentAuthorizer = (*Simulated)(nil)

// Simulated approves every well-formed intent after a fixed delay. No money moves.
type Simulated struct {
	delay time.Duration
	now   func() time.Time
}

type Option func(*Simulated)

// WithDelay sets how long each authorisation takes.
func WithDelay(d time.Duration) Option {
	return func(s *Simulated) {
		if d >= 0 {
			s.delay = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Simulated) {
		if now != nil {
			s.now = now
		}
	}
}

func NewSimulated(opts ...Option) *Simulated {
	s := &Simulated{now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Authorize waits for the configured delay and approves the intent. Negative
// amounts and unknown methods are declined.
func (s *Simulated) Authorize(ctx context.Context, intent domain.PaymentIntent) (*domain.Authorization, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	if strings.TrimSpace(intent.UID) == "" || intent.Amount.IsNegative() {
		return nil, domain.ErrPaymentDeclined
	}
	if _, err := domain.ParsePaymentMethod(string(intent.Method)); err != nil {
		return nil, domain.ErrPaymentDeclined
	}
	return &domain.Authorization{
		ID:           "pay_" + uuid.NewString(),
		Method:       intent.Method,
		Amount:       intent.Amount,
		AuthorizedAt: s.now(),
	}, nil
}
