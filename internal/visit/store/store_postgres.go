package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gatehouse/internal/platform/postgres"
	"gatehouse/internal/visit/models"
	id "gatehouse/pkg/domain"
	"gatehouse/pkg/platform/sentinel"
	txcontext "gatehouse/pkg/platform/tx"

	"github.com/google/uuid"
)

const visitColumns = `id, visitor_id, employee_id, purpose, status, created_at,
	approved_by, approved_at, rejection_reason, check_in_time, check_out_time`

// PostgresStore persists visits in PostgreSQL. Transitions are a read
// followed by a conditional UPDATE keyed on (id, status); the UPDATE is the
// atomic step, so two racing actors can both read pending_approval but only
// one UPDATE matches. Create joins the transaction riding the context when
// one is present, pairing the visit insert with the visitor insert.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Create(ctx context.Context, visit *models.Visit) error {
	query := `
		INSERT INTO visits (` + visitColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		visit.ID.String(),
		visit.VisitorID.String(),
		visit.EmployeeID.String(),
		visit.Purpose,
		string(visit.Status),
		visit.CreatedAt,
		nullableUserID(visit.ApprovedBy),
		visit.ApprovedAt,
		visit.RejectionReason,
		visit.CheckInTime,
		visit.CheckOutTime,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		if postgres.IsForeignKeyViolation(err) {
			// The visitor or employee the insert references is gone.
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("create visit: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, visitID id.VisitID) (*models.Visit, error) {
	query := `SELECT ` + visitColumns + ` FROM visits WHERE id = $1`
	visit, err := scanVisit(s.db.QueryRowContext(ctx, query, visitID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get visit: %w", err)
	}
	return visit, nil
}

func (s *PostgresStore) Transition(ctx context.Context, visitID id.VisitID, from models.VisitStatus, mutate func(*models.Visit) error) (*models.Visit, error) {
	visit, err := s.Get(ctx, visitID)
	if err != nil {
		return nil, err
	}
	if visit.Status != from {
		return nil, sentinel.ErrInvalidState
	}
	if err := mutate(visit); err != nil {
		return nil, err
	}

	query := `
		UPDATE visits
		SET status = $3, approved_by = $4, approved_at = $5,
		    rejection_reason = $6, check_in_time = $7, check_out_time = $8
		WHERE id = $1 AND status = $2
	`
	result, err := s.db.ExecContext(ctx, query,
		visitID.String(),
		string(from),
		string(visit.Status),
		nullableUserID(visit.ApprovedBy),
		visit.ApprovedAt,
		visit.RejectionReason,
		visit.CheckInTime,
		visit.CheckOutTime,
	)
	if err != nil {
		return nil, fmt.Errorf("transition visit: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("transition visit rows affected: %w", err)
	}
	if rows == 0 {
		// Someone else moved the record between our read and the UPDATE.
		if _, err := s.Get(ctx, visitID); errors.Is(err, sentinel.ErrNotFound) {
			return nil, sentinel.ErrNotFound
		}
		return nil, sentinel.ErrInvalidState
	}
	return visit, nil
}

func (s *PostgresStore) ListPending(ctx context.Context) ([]*models.Visit, error) {
	query := `
		SELECT ` + visitColumns + `
		FROM visits
		WHERE status = $1
		ORDER BY created_at ASC
	`
	return s.list(ctx, query, string(models.StatusPendingApproval))
}

func (s *PostgresStore) ListActive(ctx context.Context) ([]*models.Visit, error) {
	query := `
		SELECT ` + visitColumns + `
		FROM visits
		WHERE status = $1
		ORDER BY check_in_time DESC
	`
	return s.list(ctx, query, string(models.StatusCheckedIn))
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]*models.Visit, error) {
	query := `
		SELECT ` + visitColumns + `
		FROM visits
		ORDER BY created_at DESC
		LIMIT $1
	`
	return s.list(ctx, query, limit)
}

func (s *PostgresStore) CountByStatus(ctx context.Context, status models.VisitStatus) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM visits WHERE status = $1`, string(status)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count visits by status: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM visits WHERE created_at >= $1`, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count visits created since: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) list(ctx context.Context, query string, args ...any) ([]*models.Visit, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list visits: %w", err)
	}
	defer rows.Close()

	var visits []*models.Visit
	for rows.Next() {
		visit, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		visits = append(visits, visit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate visits: %w", err)
	}
	return visits, nil
}

type visitRow interface {
	Scan(dest ...any) error
}

func scanVisit(row visitRow) (*models.Visit, error) {
	var (
		visit           models.Visit
		visitID         uuid.UUID
		visitorID       uuid.UUID
		employeeID      uuid.UUID
		status          string
		approvedBy      uuid.NullUUID
		approvedAt      sql.NullTime
		rejectionReason string
		checkIn         sql.NullTime
		checkOut        sql.NullTime
	)
	err := row.Scan(&visitID, &visitorID, &employeeID, &visit.Purpose, &status, &visit.CreatedAt,
		&approvedBy, &approvedAt, &rejectionReason, &checkIn, &checkOut)
	if err != nil {
		return nil, err
	}
	visit.ID = id.VisitID(visitID)
	visit.VisitorID = id.VisitorID(visitorID)
	visit.EmployeeID = id.EmployeeID(employeeID)
	visit.Status = models.VisitStatus(status)
	visit.RejectionReason = rejectionReason
	if approvedBy.Valid {
		visit.ApprovedBy = id.UserID(approvedBy.UUID)
	}
	if approvedAt.Valid {
		t := approvedAt.Time
		visit.ApprovedAt = &t
	}
	if checkIn.Valid {
		t := checkIn.Time
		visit.CheckInTime = &t
	}
	if checkOut.Valid {
		t := checkOut.Time
		visit.CheckOutTime = &t
	}
	return &visit, nil
}

func nullableUserID(userID id.UserID) any {
	if userID.IsZero() {
		return nil
	}
	return userID.String()
}
