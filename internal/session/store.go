package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTTL is the inactivity window after which a session expires.
const DefaultTTL = 5 * time.Minute

// Store is a thread-safe in-memory session container with lazy TTL expiry.
//
// Unknown identifiers are not an error: Get simply reports absence and the
// caller starts a fresh conversation. Expired sessions are removed on the
// access that discovers them.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	logger   *zap.Logger

	// now is a variable for testing purposes (allows mocking time).
	now func() time.Time
}

// NewStore creates a session store with the given inactivity TTL.
// A non-positive ttl falls back to DefaultTTL.
func NewStore(ttl time.Duration, logger *zap.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// TTL returns the configured inactivity window.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Get looks up a session by identifier.
//
// Returns (nil, false) for unknown identifiers and for sessions whose
// inactivity window has elapsed; expired sessions are removed as a side
// effect. A successful lookup updates LastActivityAt.
func (s *Store) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}

	now := s.now()
	if s.expired(sess, now) {
		delete(s.sessions, id)
		s.logger.Debug("session expired on access",
			zap.String("session_id", id),
			zap.Time("last_activity", sess.LastActivityAt),
		)
		return nil, false
	}

	sess.LastActivityAt = now
	return sess, true
}

// Create allocates a new session with a server-generated identifier.
func (s *Store) Create() *Session {
	now := s.now()
	sess := &Session{
		ID:             uuid.New().String(),
		CreatedAt:      now,
		LastActivityAt: now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.logger.Debug("session created", zap.String("session_id", sess.ID))
	return sess
}

// Touch updates LastActivityAt for a live session. No-op for unknown ids.
func (s *Store) Touch(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		sess.LastActivityAt = s.now()
	}
}

// IsExpired reports whether the session's inactivity window had elapsed at
// the given instant.
func (s *Store) IsExpired(sess *Session, now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expired(sess, now)
}

// expired must be called with the store lock held.
func (s *Store) expired(sess *Session, now time.Time) bool {
	return now.Sub(sess.LastActivityAt) > s.ttl
}

// Len returns the number of live entries, including not-yet-discovered
// expired sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Purge removes all expired sessions and returns how many were dropped.
//
// Lazy expiry remains the source of truth for correctness; Purge only
// bounds memory when an operator wants an explicit sweep.
func (s *Store) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Debug("purged expired sessions", zap.Int("removed", removed))
	}
	return removed
}
