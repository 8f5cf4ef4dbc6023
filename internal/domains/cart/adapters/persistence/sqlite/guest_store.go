// Package sqlite keeps guest carts in an embedded SQLite file for single-node
// deployments without PostgreSQL.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Apurer/storefront/internal/domains/cart/adapters/persistence/blob"
	"github.com/Apurer/storefront/internal/domains/cart/domain"
	"github.com/Apurer/storefront/internal/domains/cart/ports"
)

//go:embed schema.sql
var schemaSQL string

var _ ports.GuestStore = (*GuestStore)(nil)

// GuestStore persists guest carts in SQLite.
type GuestStore struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// Open creates or opens the database at path and applies the schema.
func Open(path string, ttl time.Duration) (*GuestStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open guest cart database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to guest cart database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode = WAL", "PRAGMA busy_timeout = 5000"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply guest cart schema: %w", err)
	}
	return &GuestStore{db: db, ttl: ttl, now: time.Now}, nil
}

func (s *GuestStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *GuestStore) Load(ctx context.Context, key string) ([]domain.Item, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM guest_carts WHERE guest_key = ? AND (expires_at IS NULL OR expires_at > ?)`,
		strings.TrimSpace(key), s.now().UnixMilli(),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return []domain.Item{}, nil
	}
	if err != nil {
		return nil, err
	}
	return blob.Decode(payload)
}

func (s *GuestStore) Save(ctx context.Context, key string, items []domain.Item) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("guest cart key is required")
	}
	payload, err := blob.Encode(items)
	if err != nil {
		return err
	}
	now := s.now()
	var expires any
	if s.ttl > 0 {
		expires = now.Add(s.ttl).UnixMilli()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO guest_carts (guest_key, payload, expires_at, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(guest_key) DO UPDATE SET payload = excluded.payload, expires_at = excluded.expires_at, updated_at = excluded.updated_at`,
		key, payload, expires, now.UnixMilli(),
	)
	return err
}

func (s *GuestStore) Remove(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM guest_carts WHERE guest_key = ?`, strings.TrimSpace(key))
	return err
}

// PurgeExpired removes abandoned guest carts.
func (s *GuestStore) PurgeExpired(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM guest_carts WHERE expires_at IS NOT NULL AND expires_at <= ?`, s.now().UnixMilli())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
