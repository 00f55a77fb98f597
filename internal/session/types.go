package session

import (
	"sync"
	"time"
)

// PendingClarification records an unanswered clarification question.
//
// It is owned exclusively by its Session and destroyed when the
// clarification is answered or the session expires.
type PendingClarification struct {
	// OriginalQuestion is the ambiguous question as the user asked it.
	OriginalQuestion string

	// ClarificationQuestion is the counter-question shown to the user.
	ClarificationQuestion string

	// AskedAt is when the clarification was issued.
	AskedAt time.Time
}

// Session holds server-side state for one conversation.
//
// Lock discipline: Pending is guarded by the session's own mutex
// (Lock/Unlock); CreatedAt and LastActivityAt are maintained by the Store
// under the store lock. Callers must hold the session lock across any
// read-modify-write of Pending so concurrent requests on the same session
// serialize their state transitions.
type Session struct {
	// ID is the opaque identifier returned to clients. Stable for the
	// session's lifetime; clients must not parse it.
	ID string

	// CreatedAt is when the session was created.
	CreatedAt time.Time

	// LastActivityAt is updated on every lookup, creation, or touch.
	LastActivityAt time.Time

	// Pending is the outstanding clarification, nil when the session is
	// idle. At most one pending clarification exists at a time.
	Pending *PendingClarification

	mu sync.Mutex
}

// Lock acquires the session's state-transition lock.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session's state-transition lock.
func (s *Session) Unlock() { s.mu.Unlock() }
