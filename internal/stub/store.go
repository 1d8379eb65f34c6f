// Package stub is an in-memory stand-in for the remote user store, used by
// the dev fixture server and the integration-style tests. It implements the
// five gateway operations over a seeded record set; it is not the production
// backing store, which lives outside this repository.
package stub

import (
	"sync"

	"github.com/google/uuid"

	"github.com/aura-directory/console/internal/models"
)

// Store is a thread-safe in-memory user record store with stable ordering.
type Store struct {
	mu      sync.RWMutex
	order   []string
	records map[string]models.User
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{records: make(map[string]models.User)}
}

// NewSeededStore creates a store with a small fixture dataset covering the
// membership edge cases the console has to render: roles, an organization
// with no roles, and a user with no organizations.
func NewSeededStore() *Store {
	s := NewStore()
	s.Create(models.User{
		Username:  "astrid",
		FirstName: "Astrid",
		LastName:  "Nilsen",
		Email:     "astrid.nilsen@example.com",
		Phone:     "+47 400 12 345",
		Organizations: []models.Membership{
			{Organization: "Acme", Roles: []string{"ADMIN", "AUDITOR"}},
		},
	})
	s.Create(models.User{
		Username:  "bjorn",
		FirstName: "Bjørn",
		LastName:  "Hansen",
		Email:     "bjorn.hansen@example.com",
		Organizations: []models.Membership{
			{Organization: "Acme", Roles: []string{}},
			{Organization: "Globex", Roles: []string{"VIEWER"}},
		},
	})
	s.Create(models.User{
		Username:  "carla",
		FirstName: "Carla",
		LastName:  "Mendes",
		Email:     "carla.mendes@example.com",
	})
	return s
}

// List returns all records in insertion order.
func (s *Store) List() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id])
	}
	return out
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.records[id]
	return u, ok
}

// FindByUsername returns the record with the given username.
func (s *Store) FindByUsername(username string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		if s.records[id].Username == username {
			return s.records[id], true
		}
	}
	return models.User{}, false
}

// Create assigns a fresh id and stores the record.
func (s *Store) Create(u models.User) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = uuid.NewString()
	s.records[u.ID] = u
	s.order = append(s.order, u.ID)
	return u
}

// Update replaces the record identified by u.ID.
func (s *Store) Update(u models.User) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[u.ID]; !ok {
		return models.User{}, false
	}
	s.records[u.ID] = u
	return u, true
}

// Delete removes the record with the given id.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return false
	}
	delete(s.records, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}
