// Package txstore is the transactional document store shared by the cart and
// orders contexts. Every mutation of a stock-bearing product goes through
// RunInTransaction, usually via WithProductLock or WithProductLocks.
package txstore

import (
	"context"
	"errors"

	cartdomain "github.com/Apurer/storefront/internal/domains/cart/domain"
	catalogdomain "github.com/Apurer/storefront/internal/domains/catalog/domain"
	ordersdomain "github.com/Apurer/storefront/internal/domains/orders/domain"
)

// ErrConflict is returned when a transaction could not commit after the
// store's retry budget was exhausted. Retrying the whole operation is safe.
var ErrConflict = errors.New("transaction conflict")

// Tx exposes the documents a transaction may read and write. Reads observe the
// transaction's own buffered writes.
type Tx interface {
	// GetProduct reads a product for update. Unknown ids return
	// catalogdomain.ErrProductNotFound (wrapped).
	GetProduct(ctx context.Context, id string) (*catalogdomain.Product, error)
	PutProduct(ctx context.Context, product *catalogdomain.Product) error

	// GetCartItem returns nil, nil when the user has no document for the product.
	GetCartItem(ctx context.Context, uid, productID string) (*cartdomain.RemoteItem, error)
	PutCartItem(ctx context.Context, uid string, item *cartdomain.RemoteItem) error
	DeleteCartItem(ctx context.Context, uid, productID string) error
	ListCartItems(ctx context.Context, uid string) ([]*cartdomain.RemoteItem, error)

	// GetOrder returns ordersdomain.ErrNotFound for unknown ids.
	GetOrder(ctx context.Context, id string) (*ordersdomain.Order, error)
	PutOrder(ctx context.Context, order *ordersdomain.Order) error
}

// TxFunc is the body of a transaction. It may run more than once.
type TxFunc func(ctx context.Context, tx Tx) error

// Store runs transactions and serves the non-transactional cart read.
type Store interface {
	// RunInTransaction commits the writes made by fn atomically, or none of them
	// when fn returns an error. Conflicting commits are retried internally.
	RunInTransaction(ctx context.Context, fn TxFunc) error
	// CartItems returns every remote cart document of uid.
	CartItems(ctx context.Context, uid string) ([]*cartdomain.RemoteItem, error)
}
