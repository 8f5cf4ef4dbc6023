//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/storefront/internal/domains/cart/domain"
	"github.com/Apurer/storefront/internal/platform/migrations"
)

func setupGuestCartContainer(t *testing.T) (*gorm.DB, func()) {
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

func TestGuestStore_RoundTripAndPurge(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupGuestCartContainer(t)
	defer cleanup()

	store := NewGuestStore(db, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "g1", []domain.Item{{ID: "A", Quantity: 2, Title: "Bottle"}}))
	require.NoError(t, store.Save(ctx, "g1", []domain.Item{{ID: "A", Quantity: 3, Title: "Bottle"}}))
	items, err := store.Load(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)

	shortLived := NewGuestStore(db, time.Millisecond)
	require.NoError(t, shortLived.Save(ctx, "g2", []domain.Item{{ID: "B", Quantity: 1}}))
	time.Sleep(10 * time.Millisecond)

	purged, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	require.NoError(t, store.Remove(ctx, "g1"))
	items, err = store.Load(ctx, "g1")
	require.NoError(t, err)
	assert.Empty(t, items)
}
