package store

import (
	"context"
	"sync"

	"gatehouse/internal/auth/models"
	id "gatehouse/pkg/domain"
	"gatehouse/pkg/platform/sentinel"
)

// InMemoryStore keeps users in maps guarded by a read/write mutex.
type InMemoryStore struct {
	mu      sync.RWMutex
	byID    map[id.UserID]models.User
	byEmail map[string]id.UserID
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		byID:    make(map[id.UserID]models.User),
		byEmail: make(map[string]id.UserID),
	}
}

func (s *InMemoryStore) Upsert(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := normalizeEmail(user.Email)
	if existingID, ok := s.byEmail[key]; ok {
		// Keep the original ID stable across reseeds.
		updated := *user
		updated.ID = existingID
		s.byID[existingID] = updated
		return nil
	}
	s.byEmail[key] = user.ID
	s.byID[user.ID] = *user
	return nil
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	user := s.byID[userID]
	return &user, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.byID[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &user, nil
}
