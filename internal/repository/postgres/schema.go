package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"agendabuilder/internal/domain"

	"github.com/lib/pq"
)

// schema creates the store tables. Days and slots are removed with their parent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		name TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		header_image_url TEXT NOT NULL DEFAULT '',
		header_height TEXT NOT NULL DEFAULT '',
		background_image_url TEXT NOT NULL DEFAULT '',
		footer_image_url TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS days (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		event_id TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		day_number INTEGER NOT NULL,
		name TEXT NOT NULL,
		day_date TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS days_event_id_idx ON days (event_id, day_number)`,
	`CREATE TABLE IF NOT EXISTS slots (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		day_id TEXT NOT NULL REFERENCES days(id) ON DELETE CASCADE,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		title TEXT NOT NULL,
		presenter_name TEXT NOT NULL DEFAULT '',
		show_presenter BOOLEAN NOT NULL DEFAULT TRUE,
		sort_order INTEGER NOT NULL DEFAULT 999
	)`,
	`CREATE INDEX IF NOT EXISTS slots_day_id_idx ON slots (day_id, start_time, sort_order)`,
}

// Open connects to Postgres and checks the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the tables if they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// foreignKeyViolation is the Postgres error code for a missing parent row.
const foreignKeyViolation = "23503"

// translateParentErr turns a missing parent row into domain.ErrNotFound.
func translateParentErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
		return fmt.Errorf("%s: %w", pqErr.Constraint, domain.ErrNotFound)
	}
	return err
}
