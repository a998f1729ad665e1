package schema

import (
	"context"
	"database/sql"
	"fmt"
)

// Apply creates the three durable relations if they do not exist. Foreign
// keys enforce referential integrity between complaints/activity_logs and
// users; the workflow engine relies on the store for this, not the other
// way around.

var statements = []string{
	`CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	name TEXT NOT NULL,
	role TEXT NOT NULL CHECK (role IN ('citizen', 'agent', 'worker')),
	phone TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE TABLE IF NOT EXISTS complaints (
	id TEXT PRIMARY KEY,
	reporter_id TEXT NOT NULL REFERENCES users (id),
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	location_lat DOUBLE PRECISION NOT NULL,
	location_lng DOUBLE PRECISION NOT NULL,
	address TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending'
		CHECK (status IN ('pending', 'assigned', 'in_progress', 'completed', 'verified')),
	priority TEXT NOT NULL DEFAULT 'medium'
		CHECK (priority IN ('low', 'medium', 'high')),
	assigned_worker_id TEXT NOT NULL DEFAULT '',
	assigned_at TIMESTAMPTZ,
	completed_at TIMESTAMPTZ,
	verified_at TIMESTAMPTZ,
	original_evidence_ref TEXT NOT NULL DEFAULT '',
	before_evidence_ref TEXT NOT NULL DEFAULT '',
	after_evidence_ref TEXT NOT NULL DEFAULT '',
	citizen_feedback TEXT NOT NULL DEFAULT '',
	citizen_rating INTEGER CHECK (citizen_rating BETWEEN 1 AND 5),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE INDEX IF NOT EXISTS idx_complaints_reporter ON complaints (reporter_id)`,
	`CREATE INDEX IF NOT EXISTS idx_complaints_worker ON complaints (assigned_worker_id)`,
	`CREATE TABLE IF NOT EXISTS activity_logs (
	id TEXT PRIMARY KEY,
	seq BIGINT GENERATED ALWAYS AS IDENTITY,
	complaint_id TEXT NOT NULL REFERENCES complaints (id),
	user_id TEXT NOT NULL REFERENCES users (id),
	action TEXT NOT NULL,
	detail TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE INDEX IF NOT EXISTS idx_activity_logs_complaint ON activity_logs (complaint_id, created_at DESC, seq DESC)`,
}

func Apply(ctx context.Context, db *sql.DB) error {
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}
	return nil
}
