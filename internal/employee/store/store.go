package store

import (
	"context"

	"gatehouse/internal/employee/models"
	id "gatehouse/pkg/domain"
)

// EmployeeStore is the read side of the staff directory plus the Upsert used
// by bootstrap seeding. The lifecycle engine never writes employees.
type EmployeeStore interface {
	Upsert(ctx context.Context, employee *models.Employee) error
	Get(ctx context.Context, employeeID id.EmployeeID) (*models.Employee, error)
	GetMany(ctx context.Context, employeeIDs []id.EmployeeID) (map[id.EmployeeID]*models.Employee, error)
	// ListActive returns active employees ordered by full name.
	ListActive(ctx context.Context) ([]*models.Employee, error)
}
