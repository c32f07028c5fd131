package editor

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/pricebook/pricebook/internal/draft"
)

// ErrSessionNotFound is returned when no open session has the given id.
var ErrSessionNotFound = errors.New("editor session not found")

type entry struct {
	mu      sync.Mutex
	session *draft.Session
}

// Store holds the open editor sessions. Sessions are independent of each other;
// access to a single session is serialized through With.
type Store struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*entry
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{entries: make(map[uuid.UUID]*entry)}
}

// Put registers an open session.
func (s *Store) Put(sess *draft.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sess.ID()] = &entry{session: sess}
}

// With runs fn with exclusive access to the session.
func (s *Store) With(id uuid.UUID, fn func(*draft.Session) error) error {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session.State() == draft.StateClosed {
		return ErrSessionNotFound
	}
	return fn(e.session)
}

// Delete forgets a session.
func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

// Len returns the number of registered sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) snapshot() map[uuid.UUID]*entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[uuid.UUID]*entry, len(s.entries))
	for id, e := range s.entries {
		out[id] = e
	}
	return out
}
