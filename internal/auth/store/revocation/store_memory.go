package revocation

import (
	"context"
	"sync"
	"time"
)

// InMemoryStore is the single-process revocation list. Entries expire lazily
// on read; a facility deployment restarts far more often than the map grows.
type InMemoryStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{revoked: make(map[string]time.Time)}
}

func (s *InMemoryStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = time.Now().Add(ttl)
	return nil
}

func (s *InMemoryStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		delete(s.revoked, tokenID)
		return false, nil
	}
	return true, nil
}
