package store

import (
	"context"
	"sort"
	"sync"

	"gatehouse/internal/employee/models"
	id "gatehouse/pkg/domain"
	"gatehouse/pkg/platform/sentinel"
)

// InMemoryStore keeps employees in a map guarded by a read/write mutex.
type InMemoryStore struct {
	mu        sync.RWMutex
	employees map[id.EmployeeID]models.Employee
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{employees: make(map[id.EmployeeID]models.Employee)}
}

func (s *InMemoryStore) Upsert(_ context.Context, employee *models.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[employee.ID] = *employee
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, employeeID id.EmployeeID) (*models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	employee, ok := s.employees[employeeID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &employee, nil
}

func (s *InMemoryStore) GetMany(_ context.Context, employeeIDs []id.EmployeeID) (map[id.EmployeeID]*models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[id.EmployeeID]*models.Employee, len(employeeIDs))
	for _, employeeID := range employeeIDs {
		if employee, ok := s.employees[employeeID]; ok {
			e := employee
			out[employeeID] = &e
		}
	}
	return out, nil
}

func (s *InMemoryStore) ListActive(_ context.Context) ([]*models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	active := make([]*models.Employee, 0, len(s.employees))
	for _, employee := range s.employees {
		if employee.Active {
			e := employee
			active = append(active, &e)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].FullName < active[j].FullName })
	return active, nil
}
