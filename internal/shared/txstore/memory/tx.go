package memory

import (
	"context"
	"errors"

	cartdomain "github.com/Apurer/storefront/internal/domains/cart/domain"
	catalogdomain "github.com/Apurer/storefront/internal/domains/catalog/domain"
	ordersdomain "github.com/Apurer/storefront/internal/domains/orders/domain"
	"github.com/Apurer/storefront/internal/shared/txstore"
)

type itemKey struct {
	uid       string
	productID string
}

// tx buffers writes until commit. A nil cart write is a delete.
type tx struct {
	store      *Store
	reads      map[string]uint64
	products   map[string]*catalogdomain.Product
	cartWrites map[itemKey]*cartdomain.RemoteItem
	orders     map[string]*ordersdomain.Order
}

var _ txstore.Tx = (*tx)(nil)

func newTx(s *Store) *tx {
	return &tx{
		store:      s,
		reads:      map[string]uint64{},
		products:   map[string]*catalogdomain.Product{},
		cartWrites: map[itemKey]*cartdomain.RemoteItem{},
		orders:     map[string]*ordersdomain.Order{},
	}
}

// observe records the version of key on first read. Caller holds store.mu.
func (t *tx) observe(key string) {
	if _, ok := t.reads[key]; !ok {
		t.reads[key] = t.store.versions[key]
	}
}

func (t *tx) GetProduct(ctx context.Context, id string) (*catalogdomain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if product, ok := t.products[id]; ok {
		return product.Clone(), nil
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.observe(productKey(id))
	product, ok := t.store.products[id]
	if !ok {
		return nil, catalogdomain.NotFound(id)
	}
	return product.Clone(), nil
}

func (t *tx) PutProduct(_ context.Context, product *catalogdomain.Product) error {
	if product == nil {
		return errors.New("product is nil")
	}
	t.products[product.ID] = product.Clone()
	return nil
}

func (t *tx) GetCartItem(ctx context.Context, uid, productID string) (*cartdomain.RemoteItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if item, ok := t.cartWrites[itemKey{uid, productID}]; ok {
		return item.Clone(), nil
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.observe(cartItemKey(uid, productID))
	return t.store.carts[uid][productID].Clone(), nil
}

func (t *tx) PutCartItem(_ context.Context, uid string, item *cartdomain.RemoteItem) error {
	if item == nil {
		return errors.New("cart item is nil")
	}
	t.cartWrites[itemKey{uid, item.ProductID}] = item.Clone()
	return nil
}

func (t *tx) DeleteCartItem(_ context.Context, uid, productID string) error {
	t.cartWrites[itemKey{uid, productID}] = nil
	return nil
}

func (t *tx) ListCartItems(ctx context.Context, uid string) ([]*cartdomain.RemoteItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.store.mu.Lock()
	t.observe(cartKey(uid))
	merged := make(map[string]*cartdomain.RemoteItem, len(t.store.carts[uid]))
	for id, item := range t.store.carts[uid] {
		merged[id] = item
	}
	t.store.mu.Unlock()

	for key, item := range t.cartWrites {
		if key.uid != uid {
			continue
		}
		if item == nil {
			delete(merged, key.productID)
		} else {
			merged[key.productID] = item
		}
	}
	return sortedItems(merged), nil
}

func (t *tx) GetOrder(ctx context.Context, id string) (*ordersdomain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if order, ok := t.orders[id]; ok {
		return order.Clone(), nil
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.observe(orderKey(id))
	order, ok := t.store.orders[id]
	if !ok {
		return nil, ordersdomain.ErrNotFound
	}
	return order.Clone(), nil
}

func (t *tx) PutOrder(_ context.Context, order *ordersdomain.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	t.orders[order.ID] = order.Clone()
	return nil
}
