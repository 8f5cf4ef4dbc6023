package application

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/Apurer/storefront/internal/domains/accounts/domain"
	"github.com/Apurer/storefront/internal/domains/accounts/ports"
)

// Service issues session tokens and manages checkout profiles.
type Service struct {
	profiles ports.ProfileRepository
	sessions ports.SessionStore
	newToken func() string
}

func NewService(profiles ports.ProfileRepository, sessions ports.SessionStore) *Service {
	return &Service{profiles: profiles, sessions: sessions, newToken: uuid.NewString}
}

// SignIn stores a fresh token for the identity. The profile email is seeded
// from the identity the first time the user signs in.
func (s *Service) SignIn(ctx context.Context, identity domain.Identity) (string, error) {
	if err := identity.Validate(); err != nil {
		return "", mapError(err)
	}
	token := s.newToken()
	if err := s.sessions.Save(ctx, token, identity); err != nil {
		return "", err
	}
	if _, err := s.profiles.GetProfile(ctx, identity.UID); errors.Is(err, ports.ErrProfileNotFound) {
		if _, err := s.profiles.SaveProfile(ctx, &domain.Profile{UID: identity.UID, Email: identity.Email}); err != nil {
			return "", err
		}
	} else if err != nil {
		return "", err
	}
	return token, nil
}

func (s *Service) SignOut(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// Authenticate resolves a bearer token, failing with domain.ErrNotAuthenticated.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrNotAuthenticated
	}
	identity, err := s.sessions.Lookup(ctx, token)
	if err != nil {
		if errors.Is(err, ports.ErrSessionNotFound) {
			return nil, domain.ErrNotAuthenticated
		}
		return nil, err
	}
	return identity, nil
}

// Profile returns the stored profile, or an empty one for new users.
func (s *Service) Profile(ctx context.Context, uid string) (*domain.Profile, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, domain.ErrNotAuthenticated
	}
	profile, err := s.profiles.GetProfile(ctx, uid)
	if errors.Is(err, ports.ErrProfileNotFound) {
		return &domain.Profile{UID: uid}, nil
	}
	return profile, err
}

func (s *Service) UpdateProfile(ctx context.Context, uid string, profile domain.Profile) (*domain.Profile, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, domain.ErrNotAuthenticated
	}
	profile.UID = uid
	if err := profile.Normalize(); err != nil {
		return nil, mapError(err)
	}
	return s.profiles.SaveProfile(ctx, &profile)
}

var _ ports.Service = (*Service)(nil)
