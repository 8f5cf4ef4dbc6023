package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Apurer/storefront/internal/domains/checkout/domain"
	ordersdomain "github.com/Apurer/storefront/internal/domains/orders/domain"
)

// PlacementRequest is one checkout attempt handed to the placer.
type PlacementRequest struct {
	UID            string
	Items          []ordersdomain.LineRequest
	PaymentMethod  domain.PaymentMethod
	Amount         decimal.Decimal
	IdempotencyKey string
}

// Placement is the outcome of authorising payment and placing the order.
type Placement struct {
	Order   *ordersdomain.Order
	Payment *domain.Authorization
}

// OrderPlacer authorises payment and places the order, durably or inline.
type OrderPlacer interface {
	Place(ctx context.Context, req PlacementRequest) (*Placement, error)
}

// PaymentAuthorizer approves a payment intent. Payment is not part of the
// order transaction.
type PaymentAuthorizer interface {
	Authorize(ctx context.Context, intent domain.PaymentIntent) (*domain.Authorization, error)
}
