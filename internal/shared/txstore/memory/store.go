// Package memory is an in-process transactional document store. Transactions
// are optimistic: reads record document versions, writes are buffered, and the
// commit fails with txstore.ErrConflict when any read document changed since.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	cartdomain "github.com/Apurer/storefront/internal/domains/cart/domain"
	catalogdomain "github.com/Apurer/storefront/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/storefront/internal/domains/catalog/ports"
	ordersdomain "github.com/Apurer/storefront/internal/domains/orders/domain"
	ordersports "github.com/Apurer/storefront/internal/domains/orders/ports"
	"github.com/Apurer/storefront/internal/shared/txstore"
)

var (
	_ txstore.Store           = (*Store)(nil)
	_ catalogports.Repository = (*Store)(nil)
	_ ordersports.Repository  = (*Store)(nil)
)

// Store keeps products, cart documents and orders in memory.
type Store struct {
	mu          sync.Mutex
	products    map[string]*catalogdomain.Product
	carts       map[string]map[string]*cartdomain.RemoteItem
	orders      map[string]*ordersdomain.Order
	versions    map[string]uint64
	maxAttempts int
}

type Option func(*Store)

// WithMaxAttempts bounds how often a conflicting transaction is re-run.
func WithMaxAttempts(n int) Option {
	return func(s *Store) {
		s.maxAttempts = n
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		products:    map[string]*catalogdomain.Product{},
		carts:       map[string]map[string]*cartdomain.RemoteItem{},
		orders:      map[string]*ordersdomain.Order{},
		versions:    map[string]uint64{},
		maxAttempts: txstore.DefaultAttempts,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// RunInTransaction runs fn against a snapshot and commits its buffered writes.
func (s *Store) RunInTransaction(ctx context.Context, fn txstore.TxFunc) error {
	return txstore.Retry(ctx, s.maxAttempts, func(ctx context.Context) error {
		t := newTx(s)
		if err := fn(ctx, t); err != nil {
			return err
		}
		return s.commit(t)
	})
}

func (s *Store) CartItems(_ context.Context, uid string) ([]*cartdomain.RemoteItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedItems(s.carts[uid]), nil
}

func (s *Store) GetProduct(_ context.Context, id string) (*catalogdomain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.products[id]
	if !ok {
		return nil, catalogdomain.NotFound(id)
	}
	return product.Clone(), nil
}

func (s *Store) ListProducts(_ context.Context) ([]*catalogdomain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*catalogdomain.Product, 0, len(s.products))
	for _, product := range s.products {
		list = append(list, product.Clone())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (s *Store) SaveProduct(_ context.Context, product *catalogdomain.Product) (*catalogdomain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[product.ID] = product.Clone()
	s.versions[productKey(product.ID)]++
	return product.Clone(), nil
}

func (s *Store) GetOrder(_ context.Context, id string) (*ordersdomain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, ordersdomain.ErrNotFound
	}
	return order.Clone(), nil
}

func (s *Store) ListOrders(_ context.Context, filter ordersports.Filter) ([]*ordersdomain.Order, error) {
	s.mu.Lock()
	list := make([]*ordersdomain.Order, 0, len(s.orders))
	for _, order := range s.orders {
		if filter.Matches(order) {
			list = append(list, order.Clone())
		}
	}
	s.mu.Unlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID > list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	if filter.Limit > 0 && len(list) > filter.Limit {
		list = list[:filter.Limit]
	}
	return list, nil
}

func (s *Store) commit(t *tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, seen := range t.reads {
		if s.versions[key] != seen {
			return txstore.ErrConflict
		}
	}
	for id, product := range t.products {
		s.products[id] = product
		s.versions[productKey(id)]++
	}
	for key, item := range t.cartWrites {
		cart := s.carts[key.uid]
		if item == nil {
			if cart != nil {
				delete(cart, key.productID)
				if len(cart) == 0 {
					delete(s.carts, key.uid)
				}
			}
		} else {
			if cart == nil {
				cart = map[string]*cartdomain.RemoteItem{}
				s.carts[key.uid] = cart
			}
			cart[key.productID] = item
		}
		s.versions[cartItemKey(key.uid, key.productID)]++
		s.versions[cartKey(key.uid)]++
	}
	for id, order := range t.orders {
		s.orders[id] = order
		s.versions[orderKey(id)]++
	}
	return nil
}

func productKey(id string) string              { return "products/" + id }
func cartKey(uid string) string                { return "carts/" + uid }
func cartItemKey(uid, productID string) string { return "carts/" + uid + "/items/" + productID }
func orderKey(id string) string                { return "orders/" + id }

func sortedItems(cart map[string]*cartdomain.RemoteItem) []*cartdomain.RemoteItem {
	items := make([]*cartdomain.RemoteItem, 0, len(cart))
	for _, item := range cart {
		items = append(items, item.Clone())
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].AddedAt.Equal(items[j].AddedAt) {
			return items[i].ProductID < items[j].ProductID
		}
		return items[i].AddedAt.Before(items[j].AddedAt)
	})
	return items
}
