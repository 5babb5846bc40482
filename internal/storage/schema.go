package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema creates the tables used by the report and client repositories
const Schema = `
CREATE TABLE IF NOT EXISTS clients (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	secret_hash   TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS reports (
	id               UUID PRIMARY KEY,
	client_id        TEXT NOT NULL,
	title            TEXT NOT NULL,
	content          TEXT NOT NULL,
	content_hash     TEXT NOT NULL,
	finding_count    INTEGER NOT NULL,
	highest_severity TEXT NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS reports_client_hash ON reports (client_id, content_hash);

CREATE TABLE IF NOT EXISTS findings (
	id          UUID PRIMARY KEY,
	report_id   UUID NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
	position    INTEGER NOT NULL,
	type        TEXT NOT NULL,
	severity    TEXT NOT NULL,
	description TEXT NOT NULL,
	evidence    TEXT[] NOT NULL,
	confidence  INTEGER NOT NULL CHECK (confidence BETWEEN 0 AND 100),
	loc_start   INTEGER,
	loc_end     INTEGER,
	loc_context TEXT,
	suggestions TEXT[] NOT NULL DEFAULT '{}',
	source      TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);
`

// Migrate applies Schema
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
