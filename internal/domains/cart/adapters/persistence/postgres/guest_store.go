package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/storefront/internal/domains/cart/adapters/persistence/blob"
	"github.com/Apurer/storefront/internal/domains/cart/domain"
	"github.com/Apurer/storefront/internal/domains/cart/ports"
)

var _ ports.GuestStore = (*GuestStore)(nil)

// DefaultGuestCartTTL keeps abandoned guest carts for thirty days.
const DefaultGuestCartTTL = 30 * 24 * time.Hour

// GuestStore persists guest carts as JSON blobs in PostgreSQL.
type GuestStore struct {
	db  *gorm.DB
	ttl time.Duration
}

// NewGuestStore wires a PostgreSQL-backed guest cart store. Caller owns DB lifecycle.
func NewGuestStore(db *gorm.DB, ttl time.Duration) *GuestStore {
	if ttl <= 0 {
		ttl = DefaultGuestCartTTL
	}
	return &GuestStore{db: db, ttl: ttl}
}

type guestCartRecord struct {
	Key       string     `gorm:"primaryKey;column:guest_key;size:128"`
	Payload   []byte     `gorm:"column:payload;type:jsonb"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at;index"`
}

func (guestCartRecord) TableName() string { return "guest_carts" }

func (s *GuestStore) Load(ctx context.Context, key string) ([]domain.Item, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var rec guestCartRecord
	err := s.db.WithContext(ctx).
		Where("guest_key = ? AND (expires_at IS NULL OR expires_at > ?)", strings.TrimSpace(key), time.Now()).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []domain.Item{}, nil
		}
		return nil, err
	}
	return blob.Decode(rec.Payload)
}

// Save upserts the cart and pushes its expiry forward.
func (s *GuestStore) Save(ctx context.Context, key string, items []domain.Item) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("guest cart key is required")
	}
	payload, err := blob.Encode(items)
	if err != nil {
		return err
	}
	expiry := time.Now().Add(s.ttl)
	rec := guestCartRecord{Key: key, Payload: payload, ExpiresAt: &expiry}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "guest_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "expires_at", "updated_at"}),
		}).
		Create(&rec).Error
}

func (s *GuestStore) Remove(ctx context.Context, key string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&guestCartRecord{}, "guest_key = ?", strings.TrimSpace(key)).Error
}

// PurgeExpired removes abandoned guest carts. Use for housekeeping or cron.
func (s *GuestStore) PurgeExpired(ctx context.Context) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	result := s.db.WithContext(ctx).Where("expires_at IS NOT NULL AND expires_at <= ?", time.Now()).Delete(&guestCartRecord{})
	return result.RowsAffected, result.Error
}

func (s *GuestStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres guest cart store not configured")
	}
	return nil
}
