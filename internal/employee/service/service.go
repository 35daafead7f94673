// Package service exposes the read side of the staff directory. The
// directory itself is provisioned externally; the registration form only
// needs the active roster.
package service

import (
	"context"

	"gatehouse/internal/access"
	"gatehouse/internal/employee/models"
	"gatehouse/internal/employee/store"
	dErrors "gatehouse/pkg/domain-errors"
)

// EmployeeService serves directory reads.
type EmployeeService struct {
	employees store.EmployeeStore
}

func New(employees store.EmployeeStore) *EmployeeService {
	return &EmployeeService{employees: employees}
}

// ListActiveEmployees returns the employees who may host a visit, ordered by
// name. Gated on the register capability: the roster backs the registration
// form's host picker.
func (s *EmployeeService) ListActiveEmployees(ctx context.Context, actor access.Actor) ([]*models.Employee, error) {
	if err := access.Authorize(actor, access.CapRegisterVisit); err != nil {
		return nil, err
	}
	employees, err := s.employees.ListActive(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "employee directory unavailable")
	}
	return employees, nil
}
