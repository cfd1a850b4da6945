package identity

import "sync"

// SessionStore is the persisted session state behind a sign-in: one bearer
// token string and one serialized raw user record, always cleared together on
// logout. Any durable storage with these semantics satisfies the interface.
type SessionStore interface {
	// Token returns the persisted bearer token, or "" when signed out.
	Token() string

	// RawUser returns the last persisted raw user record, or nil.
	RawUser() *RawUserRecord

	// Save persists the token and raw user record for the session.
	Save(token string, raw *RawUserRecord)

	// Clear removes both values. Called on logout and on detected auth failure.
	Clear()
}

// MemorySessionStore is an in-process SessionStore, safe for concurrent use.
// The identity it backs is effectively immutable per session, so readers only
// ever race against a full Save or Clear.
type MemorySessionStore struct {
	mu    sync.RWMutex
	token string
	raw   *RawUserRecord
}

// NewMemorySessionStore returns an empty session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (s *MemorySessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *MemorySessionStore) RawUser() *RawUserRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.raw == nil {
		return nil
	}
	copied := *s.raw
	return &copied
}

func (s *MemorySessionStore) Save(token string, raw *RawUserRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	if raw != nil {
		copied := *raw
		s.raw = &copied
	} else {
		s.raw = nil
	}
}

func (s *MemorySessionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.raw = nil
}

var _ SessionStore = (*MemorySessionStore)(nil)
