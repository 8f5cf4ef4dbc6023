package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Apurer/storefront/internal/domains/catalog/domain"
	"github.com/Apurer/storefront/internal/domains/catalog/ports"
)

// ErrInvalidInput signals the product document violated a catalog invariant.
var ErrInvalidInput = errors.New("invalid product input")

// Service exposes catalog reads and the normalising write path.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrInvalidProductID)
	}
	return s.repo.GetProduct(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

// UpsertRaw normalises a legacy-shaped document and stores the canonical product.
func (s *Service) UpsertRaw(ctx context.Context, id string, raw domain.RawProduct) (*domain.Product, error) {
	return s.Upsert(ctx, domain.Normalize(strings.TrimSpace(id), raw))
}

// Upsert stores an already normalised product.
func (s *Service) Upsert(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if err := product.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return s.repo.SaveProduct(ctx, product)
}

var _ ports.Reader = (*Service)(nil)
