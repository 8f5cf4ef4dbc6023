//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	cartdomain "github.com/Apurer/storefront/internal/domains/cart/domain"
	catalogdomain "github.com/Apurer/storefront/internal/domains/catalog/domain"
	ordersdomain "github.com/Apurer/storefront/internal/domains/orders/domain"
	ordersports "github.com/Apurer/storefront/internal/domains/orders/ports"
	"github.com/Apurer/storefront/internal/platform/migrations"
	"github.com/Apurer/storefront/internal/shared/txstore"
)

func setupPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("storefront_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migrations.Run(db))

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}
	return db, cleanup
}

func seed(t *testing.T, s *Store, id string, stock int) {
	t.Helper()
	original := decimal.NewFromInt(120)
	_, err := s.SaveProduct(context.Background(), &catalogdomain.Product{
		ID:            id,
		Title:         "Product " + id,
		Price:         decimal.NewFromInt(100),
		HasPrice:      true,
		OriginalPrice: &original,
		Stock:         stock,
		Active:        true,
		Images:        []string{"https://cdn.example/" + id + ".png"},
	})
	require.NoError(t, err)
}

func TestStore_ProductRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	s := NewStore(db)
	seed(t, s, "A", 4)

	product, err := s.GetProduct(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, 4, product.Stock)
	require.NotNil(t, product.OriginalPrice)
	assert.True(t, product.OriginalPrice.Equal(decimal.NewFromInt(120)))
	assert.Equal(t, []string{"https://cdn.example/A.png"}, product.Images)

	_, err = s.GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, catalogdomain.ErrProductNotFound)
}

func TestStore_TransactionRollsBackOnError(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	s := NewStore(db)
	seed(t, s, "A", 4)
	ctx := context.Background()

	err := txstore.WithProductLock(ctx, s, "A", func(ctx context.Context, tx txstore.Tx, product *catalogdomain.Product) error {
		require.NoError(t, tx.PutCartItem(ctx, "u1", &cartdomain.RemoteItem{ProductID: "A", Qty: 9, AddedAt: time.Now()}))
		return product.EnsureAvailable(9)
	})
	require.ErrorIs(t, err, catalogdomain.ErrInsufficientStock)

	items, err := s.CartItems(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestStore_ConcurrentDecrementsNeverOversell(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	s := NewStore(db)
	seed(t, s, "A", 3)
	ctx := context.Background()

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			err := txstore.WithProductLock(ctx, s, "A", func(ctx context.Context, tx txstore.Tx, product *catalogdomain.Product) error {
				if err := product.EnsureAvailable(1); err != nil {
					return err
				}
				product.Stock--
				return tx.PutProduct(ctx, product)
			})
			if err != nil && !assert.ErrorIs(t, err, catalogdomain.ErrInsufficientStock) {
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	product, err := s.GetProduct(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 0, product.Stock)
}

func TestStore_OrdersAndCartInOneTransaction(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	s := NewStore(db)
	seed(t, s, "A", 2)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	require.NoError(t, s.RunInTransaction(ctx, func(ctx context.Context, tx txstore.Tx) error {
		return tx.PutCartItem(ctx, "u1", &cartdomain.RemoteItem{ProductID: "A", Qty: 2, PriceAtAdd: decimal.NewFromInt(100), AddedAt: now, UpdatedAt: now})
	}))

	order, err := ordersdomain.NewOrder("o-1", "u1", []ordersdomain.Line{{ProductID: "A", Title: "Product A", Qty: 2, UnitPrice: decimal.NewFromInt(100)}}, "upi", now)
	require.NoError(t, err)
	require.NoError(t, s.RunInTransaction(ctx, func(ctx context.Context, tx txstore.Tx) error {
		items, err := tx.ListCartItems(ctx, "u1")
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := tx.DeleteCartItem(ctx, "u1", item.ProductID); err != nil {
				return err
			}
		}
		return tx.PutOrder(ctx, order)
	}))

	items, err := s.CartItems(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, items)

	list, err := s.ListOrders(ctx, ordersports.Filter{UID: "u1"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Len(t, list[0].Items, 1)
	assert.True(t, list[0].Total.Equal(decimal.NewFromInt(200)))

	require.NoError(t, s.RunInTransaction(ctx, func(ctx context.Context, tx txstore.Tx) error {
		stored, err := tx.GetOrder(ctx, "o-1")
		if err != nil {
			return err
		}
		if err := stored.UpdateStatus(ordersdomain.StatusDispatched, now.Add(time.Minute)); err != nil {
			return err
		}
		return tx.PutOrder(ctx, stored)
	}))
	fetched, err := s.GetOrder(ctx, "o-1")
	require.NoError(t, err)
	assert.Equal(t, ordersdomain.StatusDispatched, fetched.Status)
	assert.Len(t, fetched.Items, 1)
}
