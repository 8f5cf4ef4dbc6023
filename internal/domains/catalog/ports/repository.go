package ports

import (
	"context"

	"github.com/Apurer/storefront/internal/domains/catalog/domain"
)

// Reader is the read-only catalog view the cart core depends on.
type Reader interface {
	// GetProduct returns domain.ErrProductNotFound (wrapped) when the id is unknown.
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

// Repository persists canonical products for back-office tooling.
type Repository interface {
	Reader
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	SaveProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
}
