package ports

import (
	"context"
	"errors"

	"github.com/Apurer/storefront/internal/domains/accounts/domain"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrSessionNotFound = errors.New("session not found")
)

// ProfileRepository persists customer profiles.
type ProfileRepository interface {
	GetProfile(ctx context.Context, uid string) (*domain.Profile, error)
	SaveProfile(ctx context.Context, profile *domain.Profile) (*domain.Profile, error)
}

// SessionStore maps opaque bearer tokens to identities.
type SessionStore interface {
	Save(ctx context.Context, token string, identity domain.Identity) error
	// Lookup returns ErrSessionNotFound for unknown or expired tokens.
	Lookup(ctx context.Context, token string) (*domain.Identity, error)
	Delete(ctx context.Context, token string) error
}
