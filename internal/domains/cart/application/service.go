package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	accountsdomain "github.com/Apurer/storefront/internal/domains/accounts/domain"
	"github.com/Apurer/storefront/internal/domains/cart/domain"
	"github.com/Apurer/storefront/internal/domains/cart/ports"
	catalogdomain "github.com/Apurer/storefront/internal/domains/catalog/domain"
	"github.com/Apurer/storefront/internal/shared/txstore"
)

// Service implements the remote cart on top of the transactional store.
type Service struct {
	store txstore.Store
	now   func() time.Time
}

type Option func(*Service)

// WithClock overrides the timestamp source for addedAt/updatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(store txstore.Store, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Add increases the stored quantity by qty, re-capturing the product price.
func (s *Service) Add(ctx context.Context, uid, productID string, qty int) (*domain.RemoteItem, error) {
	uid, productID, err := validateKeys(uid, productID)
	if err != nil {
		return nil, err
	}
	if qty <= 0 {
		return nil, mapError(domain.ErrInvalidQuantity)
	}
	var stored *domain.RemoteItem
	err = txstore.WithProductLock(ctx, s.store, productID, func(ctx context.Context, tx txstore.Tx, product *catalogdomain.Product) error {
		if err := product.EnsurePurchasable(); err != nil {
			return err
		}
		existing, err := tx.GetCartItem(ctx, uid, productID)
		if err != nil {
			return err
		}
		newQty := qty
		if existing != nil {
			newQty += existing.Qty
		}
		item, err := s.capture(product, existing, newQty)
		if err != nil {
			return err
		}
		if err := tx.PutCartItem(ctx, uid, item); err != nil {
			return err
		}
		stored = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// UpdateQty overwrites the stored quantity. Non-positive quantities remove the item.
func (s *Service) UpdateQty(ctx context.Context, uid, productID string, qty int) (*domain.RemoteItem, error) {
	uid, productID, err := validateKeys(uid, productID)
	if err != nil {
		return nil, err
	}
	if qty <= 0 {
		return nil, s.Remove(ctx, uid, productID)
	}
	var stored *domain.RemoteItem
	err = txstore.WithProductLock(ctx, s.store, productID, func(ctx context.Context, tx txstore.Tx, product *catalogdomain.Product) error {
		if err := product.EnsurePurchasable(); err != nil {
			return err
		}
		existing, err := tx.GetCartItem(ctx, uid, productID)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrItemNotInCart
		}
		item, err := s.capture(product, existing, qty)
		if err != nil {
			return err
		}
		if err := tx.PutCartItem(ctx, uid, item); err != nil {
			return err
		}
		stored = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// Remove deletes the document. Removing an absent item succeeds.
func (s *Service) Remove(ctx context.Context, uid, productID string) error {
	uid, productID, err := validateKeys(uid, productID)
	if err != nil {
		return err
	}
	return s.store.RunInTransaction(ctx, func(ctx context.Context, tx txstore.Tx) error {
		return tx.DeleteCartItem(ctx, uid, productID)
	})
}

// Clear deletes every item of uid, one transaction per item, and reports all
// failures together.
func (s *Service) Clear(ctx context.Context, uid string) error {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return accountsdomain.ErrNotAuthenticated
	}
	items, err := s.store.CartItems(ctx, uid)
	if err != nil {
		return err
	}
	var errs []error
	for _, item := range items {
		if err := s.Remove(ctx, uid, item.ProductID); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", item.ProductID, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Service) Items(ctx context.Context, uid string) ([]*domain.RemoteItem, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, accountsdomain.ErrNotAuthenticated
	}
	return s.store.CartItems(ctx, uid)
}

// capture validates qty against stock and stamps the current product price.
func (s *Service) capture(product *catalogdomain.Product, existing *domain.RemoteItem, qty int) (*domain.RemoteItem, error) {
	if err := product.EnsureAvailable(qty); err != nil {
		return nil, err
	}
	price, err := product.CurrentPrice()
	if err != nil {
		return nil, err
	}
	now := s.now()
	item := existing.Clone()
	if item == nil {
		item = &domain.RemoteItem{ProductID: product.ID, AddedAt: now}
	}
	item.Qty = qty
	item.PriceAtAdd = price
	item.UpdatedAt = now
	return item, nil
}

func validateKeys(uid, productID string) (string, string, error) {
	uid = strings.TrimSpace(uid)
	productID = strings.TrimSpace(productID)
	if uid == "" {
		return "", "", accountsdomain.ErrNotAuthenticated
	}
	if productID == "" {
		return "", "", mapError(domain.ErrInvalidProductID)
	}
	return uid, productID, nil
}

var _ ports.Service = (*Service)(nil)
