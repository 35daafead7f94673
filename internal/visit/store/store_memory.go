package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"gatehouse/internal/visit/models"
	id "gatehouse/pkg/domain"
	"gatehouse/pkg/platform/sentinel"
)

// InMemoryStore keeps visits in a map guarded by a single mutex. The mutex is
// held for the whole of Transition, so the status check and the mutation are
// one atomic step — the in-process equivalent of the postgres store's
// conditional UPDATE.
type InMemoryStore struct {
	mu     sync.RWMutex
	visits map[id.VisitID]models.Visit
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{visits: make(map[id.VisitID]models.Visit)}
}

func (s *InMemoryStore) Create(_ context.Context, visit *models.Visit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.visits[visit.ID]; ok {
		return sentinel.ErrConflict
	}
	s.visits[visit.ID] = *visit
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, visitID id.VisitID) (*models.Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	visit, ok := s.visits[visitID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &visit, nil
}

func (s *InMemoryStore) Transition(_ context.Context, visitID id.VisitID, from models.VisitStatus, mutate func(*models.Visit) error) (*models.Visit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.visits[visitID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if current.Status != from {
		return nil, sentinel.ErrInvalidState
	}

	// Mutate a copy so a failing callback leaves the stored record untouched.
	updated := current
	if err := mutate(&updated); err != nil {
		return nil, err
	}
	s.visits[visitID] = updated
	return &updated, nil
}

func (s *InMemoryStore) ListPending(_ context.Context) ([]*models.Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pending := s.collect(func(v models.Visit) bool { return v.Status == models.StatusPendingApproval })
	sort.Slice(pending, func(i, j int) bool { return pending[i].CreatedAt.Before(pending[j].CreatedAt) })
	return pending, nil
}

func (s *InMemoryStore) ListActive(_ context.Context) ([]*models.Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	active := s.collect(func(v models.Visit) bool { return v.Status == models.StatusCheckedIn })
	sort.Slice(active, func(i, j int) bool {
		return active[i].CheckInTime.After(*active[j].CheckInTime)
	})
	return active, nil
}

func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]*models.Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recent := s.collect(func(models.Visit) bool { return true })
	sort.Slice(recent, func(i, j int) bool { return recent[i].CreatedAt.After(recent[j].CreatedAt) })
	if limit > 0 && len(recent) > limit {
		recent = recent[:limit]
	}
	return recent, nil
}

func (s *InMemoryStore) CountByStatus(_ context.Context, status models.VisitStatus) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, visit := range s.visits {
		if visit.Status == status {
			count++
		}
	}
	return count, nil
}

func (s *InMemoryStore) CountCreatedSince(_ context.Context, since time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, visit := range s.visits {
		if !visit.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

// collect copies matching visits; callers hold at least the read lock.
func (s *InMemoryStore) collect(match func(models.Visit) bool) []*models.Visit {
	out := make([]*models.Visit, 0, len(s.visits))
	for _, visit := range s.visits {
		if match(visit) {
			v := visit
			out = append(out, &v)
		}
	}
	return out
}
