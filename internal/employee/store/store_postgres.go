package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gatehouse/internal/employee/models"
	id "gatehouse/pkg/domain"
	"gatehouse/pkg/platform/sentinel"

	"github.com/google/uuid"
)

const employeeColumns = `id, full_name, email, active, created_at`

// PostgresStore persists employees in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Upsert inserts or refreshes an employee record, keyed by email so the
// bootstrap seed stays idempotent across restarts.
func (s *PostgresStore) Upsert(ctx context.Context, employee *models.Employee) error {
	query := `
		INSERT INTO employees (` + employeeColumns + `)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			active = EXCLUDED.active
	`
	_, err := s.db.ExecContext(ctx, query,
		employee.ID.String(),
		employee.FullName,
		employee.Email,
		employee.Active,
		employee.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert employee: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, employeeID id.EmployeeID) (*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`
	employee, err := scanEmployee(s.db.QueryRowContext(ctx, query, employeeID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return employee, nil
}

func (s *PostgresStore) GetMany(ctx context.Context, employeeIDs []id.EmployeeID) (map[id.EmployeeID]*models.Employee, error) {
	out := make(map[id.EmployeeID]*models.Employee, len(employeeIDs))
	if len(employeeIDs) == 0 {
		return out, nil
	}
	raw := make([]string, len(employeeIDs))
	for i, employeeID := range employeeIDs {
		raw[i] = employeeID.String()
	}
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = ANY($1)`
	rows, err := s.db.QueryContext(ctx, query, raw)
	if err != nil {
		return nil, fmt.Errorf("get employees: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		out[employee.ID] = employee
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employees: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) ListActive(ctx context.Context) ([]*models.Employee, error) {
	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE active
		ORDER BY full_name ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active employees: %w", err)
	}
	defer rows.Close()
	var employees []*models.Employee
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, employee)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employees: %w", err)
	}
	return employees, nil
}

type employeeRow interface {
	Scan(dest ...any) error
}

func scanEmployee(row employeeRow) (*models.Employee, error) {
	var (
		employee   models.Employee
		employeeID uuid.UUID
	)
	err := row.Scan(&employeeID, &employee.FullName, &employee.Email, &employee.Active, &employee.CreatedAt)
	if err != nil {
		return nil, err
	}
	employee.ID = id.EmployeeID(employeeID)
	return &employee, nil
}
