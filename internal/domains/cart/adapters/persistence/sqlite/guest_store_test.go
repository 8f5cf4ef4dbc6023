package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront/internal/domains/cart/domain"
)

func openTestStore(t *testing.T, ttl time.Duration) *GuestStore {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "guest.db"), ttl)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGuestStore_RoundTrip(t *testing.T) {
	store := openTestStore(t, time.Hour)
	ctx := context.Background()

	items, err := store.Load(ctx, "g1")
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, store.Save(ctx, "g1", []domain.Item{
		{ID: "A", Quantity: 2, Price: decimal.NewFromInt(499), Title: "Bottle"},
		{ID: "B", Quantity: 1, Price: decimal.NewFromInt(1080)},
	}))
	require.NoError(t, store.Save(ctx, "g1", []domain.Item{
		{ID: "A", Quantity: 3, Price: decimal.NewFromInt(499), Title: "Bottle"},
	}))

	items, err = store.Load(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, "Bottle", items[0].Title)

	require.NoError(t, store.Remove(ctx, "g1"))
	items, err = store.Load(ctx, "g1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGuestStore_PurgeExpired(t *testing.T) {
	store := openTestStore(t, time.Hour)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "old", []domain.Item{{ID: "A", Quantity: 1}}))
	now = now.Add(2 * time.Hour)
	require.NoError(t, store.Save(ctx, "fresh", []domain.Item{{ID: "B", Quantity: 1}}))

	items, err := store.Load(ctx, "old")
	require.NoError(t, err)
	assert.Empty(t, items)

	purged, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}
