package application

import (
	"context"
	"strings"
	"sync"
	"time"
)

// DefaultSessionIdleTTL matches the default guest cart lifetime.
const DefaultSessionIdleTTL = 30 * 24 * time.Hour

const maxSweepInterval = time.Minute

type session struct {
	ctrl     *Controller
	lastSeen time.Time
}

// Sessions tracks one Controller per browser session. Guests are keyed by
// their guest cart key, signed-in users by account. Sessions idle for longer
// than the idle TTL are dropped on a later Resolve.
type Sessions struct {
	mu        sync.Mutex
	sessions  map[string]*session
	deps      Dependencies
	idleTTL   time.Duration
	now       func() time.Time
	lastSweep time.Time
}

type SessionsOption func(*Sessions)

// WithIdleTTL sets how long an untouched session is kept.
func WithIdleTTL(ttl time.Duration) SessionsOption {
	return func(s *Sessions) {
		if ttl > 0 {
			s.idleTTL = ttl
		}
	}
}

func WithSessionClock(now func() time.Time) SessionsOption {
	return func(s *Sessions) {
		if now != nil {
			s.now = now
		}
	}
}

func NewSessions(deps Dependencies, opts ...SessionsOption) *Sessions {
	s := &Sessions{
		sessions: map[string]*session{},
		deps:     deps,
		idleTTL:  DefaultSessionIdleTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.lastSweep = s.now()
	return s
}

func accountKey(uid string) string { return "account:" + uid }

func guestSessionKey(key string) string { return "guest:" + key }

// Resolve returns the controller for the caller. For a signed-in uid the
// guest controller is adopted the first time the account is seen; a guest
// cart brought by any later sign-in is merged into the live account session.
func (s *Sessions) Resolve(ctx context.Context, guestKey, uid string) (*Controller, error) {
	guestKey = strings.TrimSpace(guestKey)
	uid = strings.TrimSpace(uid)
	if uid != "" {
		ctrl := s.adopt(guestKey, uid)
		if err := ctrl.signIn(ctx, uid, guestKey); err != nil {
			return nil, err
		}
		return ctrl, nil
	}
	if guestKey == "" {
		return nil, ErrMissingSessionKey
	}

	s.mu.Lock()
	now := s.now()
	expired := s.sweepLocked(now)
	entry, ok := s.sessions[guestSessionKey(guestKey)]
	if !ok {
		entry = &session{ctrl: NewController(guestKey, s.deps)}
		s.sessions[guestSessionKey(guestKey)] = entry
	}
	entry.lastSeen = now
	ctrl := entry.ctrl
	s.mu.Unlock()
	closeAll(expired)

	if !ctrl.State().Hydrated {
		if err := ctrl.Hydrate(ctx); err != nil {
			return nil, err
		}
	}
	return ctrl, nil
}

// adopt returns the account controller of uid. A guest controller for
// guestKey is moved under the account when none exists yet; otherwise it is
// dropped and its key marked for merging.
func (s *Sessions) adopt(guestKey, uid string) *Controller {
	s.mu.Lock()
	now := s.now()
	expired := s.sweepLocked(now)
	key := accountKey(uid)
	guest, hasGuest := s.sessions[guestSessionKey(guestKey)]
	delete(s.sessions, guestSessionKey(guestKey))
	entry, ok := s.sessions[key]
	switch {
	case ok:
		if hasGuest {
			expired = append(expired, guest.ctrl)
			entry.ctrl.forgetGuestKey(guestKey)
		}
	case hasGuest:
		entry = guest
		s.sessions[key] = entry
	default:
		entry = &session{ctrl: NewController(guestKey, s.deps)}
		s.sessions[key] = entry
	}
	entry.lastSeen = now
	s.mu.Unlock()
	closeAll(expired)
	return entry.ctrl
}

// sweepLocked removes sessions idle past the TTL. It scans at most once per
// sweep interval.
func (s *Sessions) sweepLocked(now time.Time) []*Controller {
	interval := min(s.idleTTL, maxSweepInterval)
	if now.Sub(s.lastSweep) < interval {
		return nil
	}
	s.lastSweep = now
	var expired []*Controller
	for key, entry := range s.sessions {
		if now.Sub(entry.lastSeen) > s.idleTTL {
			delete(s.sessions, key)
			expired = append(expired, entry.ctrl)
		}
	}
	return expired
}

func closeAll(controllers []*Controller) {
	for _, ctrl := range controllers {
		ctrl.Close()
	}
}

// Get returns the live controller of the account, if any.
func (s *Sessions) Get(uid string) (*Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[accountKey(strings.TrimSpace(uid))]
	if !ok {
		return nil, false
	}
	return entry.ctrl, true
}

// SignOut signs the account out and drops its controller.
func (s *Sessions) SignOut(uid string) {
	key := accountKey(strings.TrimSpace(uid))
	s.mu.Lock()
	entry, ok := s.sessions[key]
	delete(s.sessions, key)
	s.mu.Unlock()
	if ok {
		entry.ctrl.SignOut()
		entry.ctrl.Close()
	}
}

// Close detaches every controller.
func (s *Sessions) Close() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = map[string]*session{}
	s.mu.Unlock()
	for _, entry := range sessions {
		entry.ctrl.Close()
	}
}
