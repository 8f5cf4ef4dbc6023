package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Apurer/storefront/internal/domains/accounts/domain"
	"github.com/Apurer/storefront/internal/domains/accounts/ports"
)

var (
	_ ports.ProfileRepository = (*ProfileRepository)(nil)
	_ ports.SessionStore      = (*SessionStore)(nil)
)

// ProfileRepository keeps profiles in memory.
type ProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]domain.Profile
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{profiles: map[string]domain.Profile{}}
}

func (r *ProfileRepository) GetProfile(_ context.Context, uid string) (*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	profile, ok := r.profiles[uid]
	if !ok {
		return nil, ports.ErrProfileNotFound
	}
	return &profile, nil
}

func (r *ProfileRepository) SaveProfile(_ context.Context, profile *domain.Profile) (*domain.Profile, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[profile.UID] = *profile
	clone := *profile
	return &clone, nil
}

type session struct {
	identity  domain.Identity
	expiresAt time.Time
}

// SessionStore is an in-memory SessionStore with expiry.
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]session
	now      func() time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{ttl: ttl, sessions: map[string]session{}, now: time.Now}
}

func (s *SessionStore) Save(_ context.Context, token string, identity domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := session{identity: identity}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}
	s.sessions[token] = entry
	return nil
}

func (s *SessionStore) Lookup(_ context.Context, token string) (*domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[token]
	if !ok {
		return nil, ports.ErrSessionNotFound
	}
	if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		delete(s.sessions, token)
		return nil, ports.ErrSessionNotFound
	}
	identity := entry.identity
	return &identity, nil
}

func (s *SessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// PurgeExpired drops expired sessions and reports how many were removed.
func (s *SessionStore) PurgeExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	var purged int64
	for token, entry := range s.sessions {
		if !entry.expiresAt.IsZero() && !now.Before(entry.expiresAt) {
			delete(s.sessions, token)
			purged++
		}
	}
	return purged, nil
}
