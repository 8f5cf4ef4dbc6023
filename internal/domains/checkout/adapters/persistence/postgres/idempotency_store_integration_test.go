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

	"github.com/Apurer/storefront/internal/domains/checkout/ports"
	"github.com/Apurer/storefront/internal/platform/migrations"
	platformpostgres "github.com/Apurer/storefront/internal/platform/postgres"
)

func TestIdempotencyStore_SaveAndConflict(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
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
	defer pgContainer.Terminate(ctx)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	db, err := platformpostgres.Connect(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, migrations.Run(db))

	store := NewIdempotencyStore(db)

	missing, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	saved, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k1", RequestHash: "h1", OrderID: "o1"})
	require.NoError(t, err)
	assert.Equal(t, "o1", saved.OrderID)

	again, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k1", RequestHash: "h1", OrderID: "o1"})
	require.NoError(t, err)
	assert.Equal(t, "o1", again.OrderID)

	existing, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k1", RequestHash: "h2", OrderID: "o2"})
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	assert.Equal(t, "o1", existing.OrderID)
}
