package store

import (
	"context"
	"sync"

	"gatehouse/internal/visitor/models"
	id "gatehouse/pkg/domain"
	"gatehouse/pkg/platform/sentinel"
)

// InMemoryStore keeps visitors in a map guarded by a read/write mutex.
type InMemoryStore struct {
	mu       sync.RWMutex
	visitors map[id.VisitorID]models.Visitor
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{visitors: make(map[id.VisitorID]models.Visitor)}
}

func (s *InMemoryStore) Create(_ context.Context, visitor *models.Visitor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.visitors[visitor.ID]; ok {
		return sentinel.ErrConflict
	}
	s.visitors[visitor.ID] = *visitor
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, visitorID id.VisitorID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.visitors, visitorID)
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, visitorID id.VisitorID) (*models.Visitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	visitor, ok := s.visitors[visitorID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &visitor, nil
}

// GetMany returns the visitors that exist; missing IDs are simply absent
// from the result, not an error.
func (s *InMemoryStore) GetMany(_ context.Context, visitorIDs []id.VisitorID) (map[id.VisitorID]*models.Visitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[id.VisitorID]*models.Visitor, len(visitorIDs))
	for _, visitorID := range visitorIDs {
		if visitor, ok := s.visitors[visitorID]; ok {
			v := visitor
			out[visitorID] = &v
		}
	}
	return out, nil
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.visitors), nil
}
