package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront/internal/domains/cart/domain"
)

func TestGuestStore_SaveLoadRemove(t *testing.T) {
	store := NewGuestStore(0)
	ctx := context.Background()

	items, err := store.Load(ctx, "g1")
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, store.Save(ctx, "g1", []domain.Item{{ID: "A", Quantity: 2}}))
	items, err = store.Load(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, items, 1)

	items[0].Quantity = 99
	again, err := store.Load(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 2, again[0].Quantity)

	require.NoError(t, store.Remove(ctx, "g1"))
	items, err = store.Load(ctx, "g1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGuestStore_Expiry(t *testing.T) {
	store := NewGuestStore(time.Hour)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "old", []domain.Item{{ID: "A", Quantity: 1}}))
	now = now.Add(30 * time.Minute)
	require.NoError(t, store.Save(ctx, "fresh", []domain.Item{{ID: "B", Quantity: 1}}))
	now = now.Add(45 * time.Minute)

	purged, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	items, err := store.Load(ctx, "fresh")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
