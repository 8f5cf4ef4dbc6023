// Package postgres opens the shared GORM handle used by the storefront's
// catalog, cart, order, account and checkout repositories.
package postgres

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	maxOpenConns    = 20
	maxIdleConns    = 10
	connMaxLifetime = 30 * time.Minute
	pingTimeout     = 5 * time.Second
)

// ErrEmptyDSN is returned by Connect when no POSTGRES_DSN is configured.
var ErrEmptyDSN = errors.New("postgres DSN is empty")

// Connect opens the storefront database and pings it. Errors are translated
// so repositories can match gorm.ErrDuplicatedKey.
func Connect(ctx context.Context, dsn string) (*gorm.DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, ErrEmptyDSN
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// ConnectOrFallback returns the storefront database and its close function.
// A nil DB means the caller should keep catalog, carts and orders in memory.
func ConnectOrFallback(ctx context.Context, dsn string, logger *slog.Logger) (*gorm.DB, func()) {
	if logger == nil {
		logger = slog.Default()
	}
	noop := func() {}
	db, err := Connect(ctx, dsn)
	switch {
	case errors.Is(err, ErrEmptyDSN):
		logger.WarnContext(ctx, "POSTGRES_DSN not set, storefront data stays in process memory")
		return nil, noop
	case err != nil:
		logger.WarnContext(ctx, "postgres unreachable, storefront data stays in process memory", slog.String("error", err.Error()))
		return nil, noop
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.WarnContext(ctx, "postgres handle unusable, storefront data stays in process memory", slog.String("error", err.Error()))
		return nil, noop
	}
	logger.InfoContext(ctx, "storefront database connected")
	return db, func() { _ = sqlDB.Close() }
}
