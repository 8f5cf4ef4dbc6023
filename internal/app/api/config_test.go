package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "POSTGRES_DSN", "GUEST_STORE", "GUEST_CART_TTL_HOURS", "SESSION_TTL_HOURS",
		"PAYMENT_SIMULATED_DELAY_MS", "MERGE_ENRICH_CONCURRENCY", "AUTH_DEV_SIGNIN", "TEMPORAL_DISABLED"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, GuestStoreMemory, cfg.GuestStore)
	assert.Equal(t, 720*time.Hour, cfg.GuestCartTTL)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 4, cfg.MergeEnrichConcurrency)
	assert.Zero(t, cfg.PaymentDelay)
	assert.False(t, cfg.DevSignIn)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("GUEST_STORE", "SQLite")
	t.Setenv("GUEST_SQLITE_PATH", "/tmp/carts.db")
	t.Setenv("PAYMENT_SIMULATED_DELAY_MS", "250")
	t.Setenv("AUTH_DEV_SIGNIN", "true")
	t.Setenv("TEMPORAL_DISABLED", "1")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, GuestStoreSQLite, cfg.GuestStore)
	assert.Equal(t, "/tmp/carts.db", cfg.GuestSQLitePath)
	assert.Equal(t, 250*time.Millisecond, cfg.PaymentDelay)
	assert.True(t, cfg.DevSignIn)
	assert.True(t, cfg.TemporalDisabled)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	t.Setenv("GUEST_STORE", "redis")
	_, err := LoadConfig()
	assert.ErrorContains(t, err, "GUEST_STORE")

	t.Setenv("GUEST_STORE", "")
	t.Setenv("MERGE_ENRICH_CONCURRENCY", "0")
	_, err = LoadConfig()
	assert.ErrorContains(t, err, "MERGE_ENRICH_CONCURRENCY")

	t.Setenv("MERGE_ENRICH_CONCURRENCY", "")
	t.Setenv("GUEST_CART_TTL_HOURS", "soon")
	_, err = LoadConfig()
	assert.ErrorContains(t, err, "GUEST_CART_TTL_HOURS")
}
