package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/storefront/internal/domains/accounts/domain"
	"github.com/Apurer/storefront/internal/domains/accounts/ports"
)

// SessionStore persists bearer sessions in PostgreSQL.
type SessionStore struct {
	db       *gorm.DB
	sessionT time.Duration
}

// DefaultSessionTTL provides the fallback TTL when none is configured.
const DefaultSessionTTL = 24 * time.Hour

// NewSessionStore wires a PostgreSQL-backed session store. Caller owns DB lifecycle.
func NewSessionStore(db *gorm.DB, sessionTTL time.Duration) *SessionStore {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &SessionStore{db: db, sessionT: sessionTTL}
}

type sessionRecord struct {
	Token         string     `gorm:"primaryKey;column:token;size:512"`
	UID           string     `gorm:"column:uid;index"`
	Email         string     `gorm:"column:email"`
	EmailVerified bool       `gorm:"column:email_verified"`
	Role          string     `gorm:"column:role;type:varchar(32)"`
	ExpiresAt     *time.Time `gorm:"column:expires_at;index"`
	CreatedAt     time.Time  `gorm:"column:created_at;index"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;index"`
}

func (sessionRecord) TableName() string { return "sessions" }

// Save upserts the session keyed by token.
func (s *SessionStore) Save(ctx context.Context, token string, identity domain.Identity) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" || identity.UID == "" {
		return errors.New("token and uid are required")
	}
	expiry := time.Now().Add(s.sessionT)
	rec := sessionRecord{
		Token:         token,
		UID:           identity.UID,
		Email:         identity.Email,
		EmailVerified: identity.EmailVerified,
		Role:          string(identity.Role),
		ExpiresAt:     &expiry,
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			DoUpdates: clause.AssignmentColumns([]string{"uid", "email", "email_verified", "role", "expires_at", "updated_at"}),
		}).
		Create(&rec).Error
}

func (s *SessionStore) Lookup(ctx context.Context, token string) (*domain.Identity, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var rec sessionRecord
	err := s.db.WithContext(ctx).
		Where("token = ? AND (expires_at IS NULL OR expires_at > ?)", strings.TrimSpace(token), time.Now()).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrSessionNotFound
		}
		return nil, err
	}
	return &domain.Identity{
		UID:           rec.UID,
		Email:         rec.Email,
		EmailVerified: rec.EmailVerified,
		Role:          domain.Role(rec.Role),
	}, nil
}

// Delete removes a session by token.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&sessionRecord{}, "token = ?", token).Error
}

// PurgeExpired removes all expired sessions. Use for housekeeping or cron.
func (s *SessionStore) PurgeExpired(ctx context.Context) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	result := s.db.WithContext(ctx).Where("expires_at IS NOT NULL AND expires_at <= ?", time.Now()).Delete(&sessionRecord{})
	return result.RowsAffected, result.Error
}

func (s *SessionStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres session store not configured")
	}
	return nil
}

var _ ports.SessionStore = (*SessionStore)(nil)
