package api

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	accountsmemory "github.com/Apurer/storefront/internal/domains/accounts/adapters/memory"
	accountspostgres "github.com/Apurer/storefront/internal/domains/accounts/adapters/persistence/postgres"
	accountsports "github.com/Apurer/storefront/internal/domains/accounts/ports"
	cartmemory "github.com/Apurer/storefront/internal/domains/cart/adapters/memory"
	cartpostgres "github.com/Apurer/storefront/internal/domains/cart/adapters/persistence/postgres"
	cartsqlite "github.com/Apurer/storefront/internal/domains/cart/adapters/persistence/sqlite"
	cartports "github.com/Apurer/storefront/internal/domains/cart/ports"
	catalogports "github.com/Apurer/storefront/internal/domains/catalog/ports"
	checkoutmemory "github.com/Apurer/storefront/internal/domains/checkout/adapters/memory"
	checkoutpostgres "github.com/Apurer/storefront/internal/domains/checkout/adapters/persistence/postgres"
	checkoutports "github.com/Apurer/storefront/internal/domains/checkout/ports"
	ordersports "github.com/Apurer/storefront/internal/domains/orders/ports"
	"github.com/Apurer/storefront/internal/platform/migrations"
	platformpostgres "github.com/Apurer/storefront/internal/platform/postgres"
	"github.com/Apurer/storefront/internal/shared/txstore"
	txmemory "github.com/Apurer/storefront/internal/shared/txstore/memory"
	txpostgres "github.com/Apurer/storefront/internal/shared/txstore/postgres"
)

// Purger removes expired rows; guest cart and session stores implement it.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Stores bundles the adapters shared by the API, the worker and storefrontctl.
type Stores struct {
	Tx          txstore.Store
	Catalog     catalogports.Repository
	Orders      ordersports.Repository
	Profiles    accountsports.ProfileRepository
	Sessions    accountsports.SessionStore
	Guests      cartports.GuestStore
	Idempotency checkoutports.IdempotencyStore
	// Purgers is keyed by a human readable name for logs.
	Purgers map[string]Purger
	// DB is nil when running on in-memory adapters.
	DB *gorm.DB
}

// BuildStores connects to postgres when configured and falls back to memory
// adapters otherwise. The guest cart store follows GUEST_STORE.
func BuildStores(ctx context.Context, cfg Config, logger *slog.Logger) (*Stores, func(), error) {
	db, closeDB := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	cleanup := []func(){closeDB}
	closeAll := func() {
		for i := len(cleanup) - 1; i >= 0; i-- {
			cleanup[i]()
		}
	}

	stores := &Stores{DB: db, Purgers: map[string]Purger{}}
	if db != nil {
		if err := migrations.Run(db); err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("failed to migrate storefront schema: %w", err)
		}
		tx := txpostgres.NewStore(db)
		sessions := accountspostgres.NewSessionStore(db, cfg.SessionTTL)
		stores.Tx, stores.Catalog, stores.Orders = tx, tx, tx
		stores.Profiles = accountspostgres.NewProfileRepository(db)
		stores.Sessions = sessions
		stores.Idempotency = checkoutpostgres.NewIdempotencyStore(db)
		stores.Purgers["sessions"] = sessions
	} else {
		tx := txmemory.NewStore()
		sessions := accountsmemory.NewSessionStore(cfg.SessionTTL)
		stores.Tx, stores.Catalog, stores.Orders = tx, tx, tx
		stores.Profiles = accountsmemory.NewProfileRepository()
		stores.Sessions = sessions
		stores.Idempotency = checkoutmemory.NewIdempotencyStore()
		stores.Purgers["sessions"] = sessions
	}

	switch cfg.GuestStore {
	case GuestStoreSQLite:
		guests, err := cartsqlite.Open(cfg.GuestSQLitePath, cfg.GuestCartTTL)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		cleanup = append(cleanup, func() { _ = guests.Close() })
		stores.Guests = guests
		stores.Purgers["guest carts"] = guests
	case GuestStorePostgres:
		if db == nil {
			closeAll()
			return nil, nil, fmt.Errorf("GUEST_STORE=postgres requires a reachable POSTGRES_DSN")
		}
		guests := cartpostgres.NewGuestStore(db, cfg.GuestCartTTL)
		stores.Guests = guests
		stores.Purgers["guest carts"] = guests
	default:
		guests := cartmemory.NewGuestStore(cfg.GuestCartTTL)
		stores.Guests = guests
		stores.Purgers["guest carts"] = guests
	}
	if logger != nil {
		logger.Info("storefront stores configured",
			slog.Bool("postgres", db != nil),
			slog.String("guest_store", cfg.GuestStore))
	}
	return stores, closeAll, nil
}
