package ports

import (
	"context"

	"github.com/Apurer/storefront/internal/domains/accounts/domain"
)

// Service exposes account use cases to adapters.
type Service interface {
	SignIn(ctx context.Context, identity domain.Identity) (string, error)
	SignOut(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*domain.Identity, error)
	Profile(ctx context.Context, uid string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, uid string, profile domain.Profile) (*domain.Profile, error)
}
