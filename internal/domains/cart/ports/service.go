package ports

import (
	"context"

	"github.com/Apurer/storefront/internal/domains/cart/domain"
)

// Service is the stock-aware remote cart. Every quantity change runs in one
// store transaction that locks the product first.
type Service interface {
	Add(ctx context.Context, uid, productID string, qty int) (*domain.RemoteItem, error)
	// UpdateQty sets an absolute quantity. qty <= 0 removes the item and returns nil.
	UpdateQty(ctx context.Context, uid, productID string, qty int) (*domain.RemoteItem, error)
	Remove(ctx context.Context, uid, productID string) error
	Clear(ctx context.Context, uid string) error
	Items(ctx context.Context, uid string) ([]*domain.RemoteItem, error)
}
