package session

import (
	"sync"

	"pharma-console/internal/domain"
)

// Store is the single source of truth for who is signed in to one browser session.
// Login and Logout are the only mutations; the signed-in flag is derived from the
// user so the two can never disagree.
type Store struct {
	id string

	mu   sync.RWMutex
	user *domain.User
}

// NewStore returns an empty store that is not filed in any registry.
func NewStore() *Store {
	return &Store{}
}

func newStoreWithID(id string) *Store {
	return &Store{id: id}
}

// ID is the registry key of the store, empty for a detached store.
func (s *Store) ID() string {
	return s.id
}

// Login replaces the current user. The caller validates the user beforehand.
func (s *Store) Login(user domain.User) {
	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
}

// Logout clears the current user. Calling it on an empty store does nothing.
func (s *Store) Logout() {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (s *Store) CurrentUser() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Snapshot is a read-only view of a store at one instant.
type Snapshot struct {
	User            *domain.User
	IsAuthenticated bool
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return Snapshot{}
	}
	u := *s.user
	return Snapshot{User: &u, IsAuthenticated: true}
}
