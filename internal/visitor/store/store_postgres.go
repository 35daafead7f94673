package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gatehouse/internal/platform/postgres"
	"gatehouse/internal/visitor/models"
	id "gatehouse/pkg/domain"
	"gatehouse/pkg/platform/sentinel"
	txcontext "gatehouse/pkg/platform/tx"

	"github.com/google/uuid"
)

const visitorColumns = `id, full_name, phone, email, company, id_type, id_number, created_at`

// PostgresStore persists visitors in PostgreSQL. Writes go through the
// transaction riding the context when one is present, so registration can
// commit the visitor and the visit as a unit.
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

func (s *PostgresStore) Create(ctx context.Context, visitor *models.Visitor) error {
	query := `
		INSERT INTO visitors (` + visitorColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		visitor.ID.String(),
		visitor.FullName,
		visitor.Phone,
		visitor.Email,
		visitor.Company,
		string(visitor.IDType),
		visitor.IDNumber,
		visitor.CreatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create visitor: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, visitorID id.VisitorID) error {
	_, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM visitors WHERE id = $1`, visitorID.String())
	if err != nil {
		return fmt.Errorf("delete visitor: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, visitorID id.VisitorID) (*models.Visitor, error) {
	query := `SELECT ` + visitorColumns + ` FROM visitors WHERE id = $1`
	visitor, err := scanVisitor(s.db.QueryRowContext(ctx, query, visitorID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get visitor: %w", err)
	}
	return visitor, nil
}

func (s *PostgresStore) GetMany(ctx context.Context, visitorIDs []id.VisitorID) (map[id.VisitorID]*models.Visitor, error) {
	out := make(map[id.VisitorID]*models.Visitor, len(visitorIDs))
	if len(visitorIDs) == 0 {
		return out, nil
	}
	raw := make([]string, len(visitorIDs))
	for i, visitorID := range visitorIDs {
		raw[i] = visitorID.String()
	}
	query := `SELECT ` + visitorColumns + ` FROM visitors WHERE id = ANY($1)`
	rows, err := s.db.QueryContext(ctx, query, raw)
	if err != nil {
		return nil, fmt.Errorf("get visitors: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		visitor, err := scanVisitor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan visitor: %w", err)
		}
		out[visitor.ID] = visitor
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate visitors: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM visitors`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count visitors: %w", err)
	}
	return count, nil
}

type visitorRow interface {
	Scan(dest ...any) error
}

func scanVisitor(row visitorRow) (*models.Visitor, error) {
	var (
		visitor   models.Visitor
		visitorID uuid.UUID
		idType    string
	)
	err := row.Scan(&visitorID, &visitor.FullName, &visitor.Phone, &visitor.Email,
		&visitor.Company, &idType, &visitor.IDNumber, &visitor.CreatedAt)
	if err != nil {
		return nil, err
	}
	visitor.ID = id.VisitorID(visitorID)
	visitor.IDType = models.IDType(idType)
	return &visitor, nil
}
