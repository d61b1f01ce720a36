package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const schema = `
	CREATE TABLE IF NOT EXISTS events (
		id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		type         TEXT NOT NULL DEFAULT '',
		name         TEXT NOT NULL DEFAULT '',
		tagline      TEXT NOT NULL DEFAULT '',
		schedule     TIMESTAMPTZ NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		image        TEXT,
		moderator    TEXT NOT NULL DEFAULT '',
		category     TEXT NOT NULL DEFAULT '',
		sub_category TEXT NOT NULL DEFAULT '',
		rigor_rank   TEXT NOT NULL DEFAULT '',
		attendees    INTEGER[] NOT NULL DEFAULT '{}'
	);
	CREATE INDEX IF NOT EXISTS events_schedule_idx ON events (schedule DESC);
`

// Open connects to dsn and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the events table and its index if missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
