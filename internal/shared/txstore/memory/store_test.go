package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	cartdomain "github.com/Apurer/storefront/internal/domains/cart/domain"
	catalogdomain "github.com/Apurer/storefront/internal/domains/catalog/domain"
	ordersdomain "github.com/Apurer/storefront/internal/domains/orders/domain"
	ordersports "github.com/Apurer/storefront/internal/domains/orders/ports"
	"github.com/Apurer/storefront/internal/shared/txstore"
)

func seedProduct(t *testing.T, s *Store, id string, stock int) {
	t.Helper()
	_, err := s.SaveProduct(context.Background(), &catalogdomain.Product{
		ID: id, Title: id, Price: decimal.NewFromInt(100), HasPrice: true, Stock: stock, Active: true,
	})
	require.NoError(t, err)
}

func TestRunInTransaction_CommitsAtomically(t *testing.T) {
	s := NewStore()
	seedProduct(t, s, "A", 5)
	ctx := context.Background()

	err := s.RunInTransaction(ctx, func(ctx context.Context, tx txstore.Tx) error {
		product, err := tx.GetProduct(ctx, "A")
		require.NoError(t, err)
		product.Stock = 1
		require.NoError(t, tx.PutProduct(ctx, product))
		require.NoError(t, tx.PutCartItem(ctx, "u1", &cartdomain.RemoteItem{ProductID: "A", Qty: 4}))

		// Reads observe the transaction's own writes.
		item, err := tx.GetCartItem(ctx, "u1", "A")
		require.NoError(t, err)
		require.NotNil(t, item)
		assert.Equal(t, 4, item.Qty)
		items, err := tx.ListCartItems(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, items, 1)
		return nil
	})
	require.NoError(t, err)

	product, err := s.GetProduct(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 1, product.Stock)
	items, err := s.CartItems(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Qty)
}

func TestRunInTransaction_ErrorDiscardsWrites(t *testing.T) {
	s := NewStore()
	seedProduct(t, s, "A", 5)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.RunInTransaction(ctx, func(ctx context.Context, tx txstore.Tx) error {
		require.NoError(t, tx.PutCartItem(ctx, "u1", &cartdomain.RemoteItem{ProductID: "A", Qty: 1}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	items, err := s.CartItems(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRunInTransaction_RetriesAfterConcurrentWrite(t *testing.T) {
	s := NewStore()
	seedProduct(t, s, "A", 5)
	ctx := context.Background()

	runs := 0
	err := s.RunInTransaction(ctx, func(ctx context.Context, tx txstore.Tx) error {
		runs++
		product, err := tx.GetProduct(ctx, "A")
		if err != nil {
			return err
		}
		if runs == 1 {
			// Another writer commits between our read and our commit.
			_, err := s.SaveProduct(ctx, &catalogdomain.Product{ID: "A", Stock: 2, Active: true})
			require.NoError(t, err)
		}
		product.Stock--
		return tx.PutProduct(ctx, product)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, runs)

	product, err := s.GetProduct(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 1, product.Stock)
}

func TestRunInTransaction_ConflictAfterBudget(t *testing.T) {
	s := NewStore(WithMaxAttempts(2))
	seedProduct(t, s, "A", 5)
	ctx := context.Background()

	err := s.RunInTransaction(ctx, func(ctx context.Context, tx txstore.Tx) error {
		if _, err := tx.GetProduct(ctx, "A"); err != nil {
			return err
		}
		_, err := s.SaveProduct(ctx, &catalogdomain.Product{ID: "A", Stock: 5, Active: true})
		return err
	})
	require.ErrorIs(t, err, txstore.ErrConflict)
}

func TestWithProductLock_ConcurrentDecrementsNeverOversell(t *testing.T) {
	s := NewStore(WithMaxAttempts(100))
	seedProduct(t, s, "A", 10)
	ctx := context.Background()

	var g errgroup.Group
	sold := make(chan struct{}, 20)
	for i := 0; i < 20; i++ {
		g.Go(func() error {
			err := txstore.WithProductLock(ctx, s, "A", func(ctx context.Context, tx txstore.Tx, product *catalogdomain.Product) error {
				if err := product.EnsureAvailable(1); err != nil {
					return err
				}
				product.Stock--
				return tx.PutProduct(ctx, product)
			})
			if errors.Is(err, catalogdomain.ErrInsufficientStock) {
				return nil
			}
			if err == nil {
				sold <- struct{}{}
			}
			return err
		})
	}
	require.NoError(t, g.Wait())
	close(sold)

	assert.Len(t, sold, 10)
	product, err := s.GetProduct(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 0, product.Stock)
}

func TestWithProductLocks_MissingProduct(t *testing.T) {
	s := NewStore()
	seedProduct(t, s, "A", 1)

	err := txstore.WithProductLocks(context.Background(), s, []string{"A", "Z"}, func(context.Context, txstore.Tx, map[string]*catalogdomain.Product) error {
		t.Fatal("fn must not run")
		return nil
	})
	require.ErrorIs(t, err, catalogdomain.ErrProductNotFound)
}

func TestListOrders_NewestFirstWithFilter(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, uid := range []string{"u1", "u2", "u1"} {
		order, err := ordersdomain.NewOrder(string(rune('a'+i)), uid, []ordersdomain.Line{{ProductID: "A", Qty: 1}}, "upi", base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, err)
		require.NoError(t, s.RunInTransaction(ctx, func(ctx context.Context, tx txstore.Tx) error {
			return tx.PutOrder(ctx, order)
		}))
	}

	list, err := s.ListOrders(ctx, ordersports.Filter{UID: "u1"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c", list[0].ID)
	assert.Equal(t, "a", list[1].ID)

	limited, err := s.ListOrders(ctx, ordersports.Filter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "c", limited[0].ID)

	_, err = s.GetOrder(ctx, "missing")
	require.ErrorIs(t, err, ordersdomain.ErrNotFound)
}
