package ports

import (
	"context"

	"github.com/Apurer/storefront/internal/domains/cart/domain"
)

// GuestStore keeps the cart of a visitor that has not signed in, keyed by the
// guest session key.
type GuestStore interface {
	// Load returns an empty slice when nothing is stored under key.
	Load(ctx context.Context, key string) ([]domain.Item, error)
	Save(ctx context.Context, key string, items []domain.Item) error
	Remove(ctx context.Context, key string) error
}
