package payment

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront/internal/domains/checkout/domain"
)

func TestSimulated_Authorize(t *testing.T) {
	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	s := NewSimulated(WithClock(func() time.Time { return at }))

	auth, err := s.Authorize(context.Background(), domain.PaymentIntent{UID: "u1", Method: domain.PaymentUPI, Amount: decimal.NewFromInt(550)})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(auth.ID, "pay_"))
	assert.Equal(t, domain.PaymentUPI, auth.Method)
	assert.True(t, auth.Amount.Equal(decimal.NewFromInt(550)))
	assert.Equal(t, at, auth.AuthorizedAt)
}

func TestSimulated_Declines(t *testing.T) {
	s := NewSimulated()
	ctx := context.Background()

	_, err := s.Authorize(ctx, domain.PaymentIntent{UID: "u1", Method: "cash", Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrPaymentDeclined)
	_, err = s.Authorize(ctx, domain.PaymentIntent{Method: domain.PaymentCard, Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrPaymentDeclined)
	_, err = s.Authorize(ctx, domain.PaymentIntent{UID: "u1", Method: domain.PaymentCard, Amount: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrPaymentDeclined)
}

func TestSimulated_DelayHonoursCancellation(t *testing.T) {
	s := NewSimulated(WithDelay(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Authorize(ctx, domain.PaymentIntent{UID: "u1", Method: domain.PaymentCard, Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, context.Canceled)
}
