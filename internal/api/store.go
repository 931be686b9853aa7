package api

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-importwizard/pkg/wizard"
)

// SessionFactory builds a fresh wizard session for each create request.
type SessionFactory func() (*wizard.Session, error)

// Store keeps live wizard sessions keyed by their identifier. It is safe for
// concurrent use by HTTP handlers.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*wizard.Session
	factory  SessionFactory
}

// NewStore constructs a Store. A nil factory falls back to wizard.New with
// defaults.
func NewStore(factory SessionFactory) *Store {
	if factory == nil {
		factory = func() (*wizard.Session, error) {
			return wizard.New()
		}
	}
	return &Store{
		sessions: map[uuid.UUID]*wizard.Session{},
		factory:  factory,
	}
}

// Create builds a new session and registers it.
func (s *Store) Create() (*wizard.Session, error) {
	session, err := s.factory()
	if err != nil {
		return nil, fmt.Errorf("api: create session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID()] = session
	return session, nil
}

// Get returns the session with the given identifier.
func (s *Store) Get(id uuid.UUID) (*wizard.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

// Delete removes the session and reports whether it existed.
func (s *Store) Delete(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
