package ports

import (
	"context"

	"github.com/Apurer/storefront/internal/domains/orders/domain"
)

// PlaceOrderInput is a request to turn cart lines into a pending order.
type PlaceOrderInput struct {
	UID           string
	Items         []domain.LineRequest
	PaymentMethod string
	// OrderID is optional. When set and the order already exists for UID,
	// PlaceOrder returns it instead of placing a second one.
	OrderID string
}

// Service exposes order use cases to adapters.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.Status) (*domain.Order, error)
	Get(ctx context.Context, orderID string) (*domain.Order, error)
	List(ctx context.Context, filter Filter) ([]*domain.Order, error)
	Dashboard(ctx context.Context) (*domain.Dashboard, error)
}
