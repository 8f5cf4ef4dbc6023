package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/storefront/internal/domains/cart/domain"
	"github.com/Apurer/storefront/internal/domains/cart/ports"
)

var _ ports.GuestStore = (*GuestStore)(nil)

type guestCart struct {
	items     []domain.Item
	expiresAt time.Time
}

// GuestStore keeps guest carts in process memory.
type GuestStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	carts map[string]guestCart
	now   func() time.Time
}

// NewGuestStore returns a store whose carts expire after ttl; zero disables expiry.
func NewGuestStore(ttl time.Duration) *GuestStore {
	return &GuestStore{ttl: ttl, carts: map[string]guestCart{}, now: time.Now}
}

func (s *GuestStore) Load(_ context.Context, key string) ([]domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[key]
	if !ok || s.expired(cart) {
		delete(s.carts, key)
		return []domain.Item{}, nil
	}
	return domain.CloneItems(cart.items), nil
}

func (s *GuestStore) Save(_ context.Context, key string, items []domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := guestCart{items: domain.CloneItems(items)}
	if s.ttl > 0 {
		cart.expiresAt = s.now().Add(s.ttl)
	}
	s.carts[key] = cart
	return nil
}

func (s *GuestStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, key)
	return nil
}

// PurgeExpired drops expired carts and reports how many were removed.
func (s *GuestStore) PurgeExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var purged int64
	for key, cart := range s.carts {
		if s.expired(cart) {
			delete(s.carts, key)
			purged++
		}
	}
	return purged, nil
}

func (s *GuestStore) expired(cart guestCart) bool {
	return !cart.expiresAt.IsZero() && !s.now().Before(cart.expiresAt)
}
