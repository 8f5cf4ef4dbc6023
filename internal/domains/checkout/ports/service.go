package ports

import (
	"context"

	accountsdomain "github.com/Apurer/storefront/internal/domains/accounts/domain"
	"github.com/Apurer/storefront/internal/domains/checkout/domain"
)

// PaymentRequest carries the client's checkout choices.
type PaymentRequest struct {
	Method         string
	IdempotencyKey string
}

// Service runs the checkout flow for a signed-in identity.
type Service interface {
	Readiness(ctx context.Context, identity *accountsdomain.Identity) (*domain.Readiness, error)
	Checkout(ctx context.Context, identity *accountsdomain.Identity, req PaymentRequest) (*domain.Confirmation, error)
}
