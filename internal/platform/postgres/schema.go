package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate applies the schema idempotently. Statements are ordered so foreign
// keys resolve; rerunning against an up-to-date database is a no-op.
func Migrate(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            UUID PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			full_name     TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL,
			active        BOOLEAN NOT NULL DEFAULT TRUE,
			created_at    TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS employees (
			id         UUID PRIMARY KEY,
			full_name  TEXT NOT NULL,
			email      TEXT NOT NULL UNIQUE,
			active     BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS visitors (
			id         UUID PRIMARY KEY,
			full_name  TEXT NOT NULL,
			phone      TEXT NOT NULL,
			email      TEXT NOT NULL DEFAULT '',
			company    TEXT NOT NULL DEFAULT '',
			id_type    TEXT NOT NULL,
			id_number  TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS visits (
			id               UUID PRIMARY KEY,
			visitor_id       UUID NOT NULL REFERENCES visitors (id),
			employee_id      UUID NOT NULL REFERENCES employees (id),
			purpose          TEXT NOT NULL,
			status           TEXT NOT NULL,
			created_at       TIMESTAMPTZ NOT NULL,
			approved_by      UUID,
			approved_at      TIMESTAMPTZ,
			rejection_reason TEXT NOT NULL DEFAULT '',
			check_in_time    TIMESTAMPTZ,
			check_out_time   TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS idx_visits_status ON visits (status)`,
		`CREATE INDEX IF NOT EXISTS idx_visits_created_at ON visits (created_at)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
