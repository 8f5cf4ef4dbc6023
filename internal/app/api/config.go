package api

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
)

// Guest cart backends selectable through GUEST_STORE.
const (
	GuestStoreMemory   = "memory"
	GuestStorePostgres = "postgres"
	GuestStoreSQLite   = "sqlite"
)

// Config carries environment-driven settings shared by the storefront processes.
type Config struct {
	Port                   string
	PostgresDSN            string
	TemporalAddress        string
	TemporalNamespace      string
	TemporalDisabled       bool
	GuestStore             string
	GuestSQLitePath        string
	GuestCartTTL           time.Duration
	SessionTTL             time.Duration
	DevSignIn              bool
	PaymentDelay           time.Duration
	MergeEnrichConcurrency int
}

// LoadConfig reads a .env file when present, then environment variables,
// applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		GuestStore:        strings.ToLower(envDefault("GUEST_STORE", GuestStoreMemory)),
		GuestSQLitePath:   envDefault("GUEST_SQLITE_PATH", "guest_carts.db"),
		DevSignIn:         isTruthy(os.Getenv("AUTH_DEV_SIGNIN")),
	}
	switch cfg.GuestStore {
	case GuestStoreMemory, GuestStorePostgres, GuestStoreSQLite:
	default:
		return Config{}, fmt.Errorf("GUEST_STORE must be one of memory, postgres, sqlite")
	}

	var err error
	if cfg.GuestCartTTL, err = hoursEnv("GUEST_CART_TTL_HOURS", 720); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = hoursEnv("SESSION_TTL_HOURS", 24); err != nil {
		return Config{}, err
	}
	delay, err := intEnv("PAYMENT_SIMULATED_DELAY_MS", 0, 0)
	if err != nil {
		return Config{}, err
	}
	cfg.PaymentDelay = time.Duration(delay) * time.Millisecond
	if cfg.MergeEnrichConcurrency, err = intEnv("MERGE_ENRICH_CONCURRENCY", 4, 1); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func hoursEnv(key string, fallback int) (time.Duration, error) {
	hours, err := intEnv(key, fallback, 1)
	if err != nil {
		return 0, err
	}
	return time.Duration(hours) * time.Hour, nil
}

func intEnv(key string, fallback, min int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < min {
		return 0, fmt.Errorf("%s must be an integer >= %d", key, min)
	}
	return value, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
