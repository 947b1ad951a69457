package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// migration is a single versioned schema change applied in its own
// transaction. Versions must be unique and sort lexicographically.
type migration struct {
	version     string
	description string
	sql         string
}

var migrations = []migration{
	{
		version:     "001",
		description: "employees table",
		sql: `
			CREATE TABLE employees (
				id            TEXT PRIMARY KEY,
				emp_id        TEXT NOT NULL UNIQUE,
				name          TEXT NOT NULL,
				email         TEXT NOT NULL UNIQUE,
				department    TEXT NOT NULL DEFAULT '',
				salary        REAL NOT NULL DEFAULT 0,
				join_date     TEXT,
				role          TEXT NOT NULL DEFAULT 'employee'
				              CHECK (role IN ('admin', 'manager', 'employee')),
				manager_id    TEXT REFERENCES employees(id) ON DELETE SET NULL,
				password_hash TEXT NOT NULL,
				disabled      INTEGER NOT NULL DEFAULT 0,
				created_at    TEXT NOT NULL,
				updated_at    TEXT NOT NULL
			);
		`,
	},
	{
		version:     "002",
		description: "time entries with one-entry-per-day constraint",
		sql: `
			CREATE TABLE time_entries (
				id            TEXT PRIMARY KEY,
				employee_id   TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
				entry_date    TEXT NOT NULL,
				start_time    TEXT NOT NULL,
				end_time      TEXT,
				break_minutes INTEGER NOT NULL DEFAULT 0 CHECK (break_minutes >= 0),
				total_hours   REAL,
				task          TEXT NOT NULL DEFAULT '',
				project       TEXT NOT NULL DEFAULT '',
				status        TEXT NOT NULL DEFAULT 'pending_approval'
				              CHECK (status IN ('pending_approval', 'approved', 'denied')),
				created_at    TEXT NOT NULL,
				updated_at    TEXT NOT NULL,
				UNIQUE (employee_id, entry_date)
			);
			CREATE INDEX idx_time_entries_employee_date
				ON time_entries (employee_id, entry_date);
		`,
	},
	{
		version:     "003",
		description: "sessions table",
		sql: `
			CREATE TABLE sessions (
				id          TEXT PRIMARY KEY,
				employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
				token       TEXT NOT NULL UNIQUE,
				expires_at  TEXT NOT NULL,
				created_at  TEXT NOT NULL,
				updated_at  TEXT NOT NULL,
				revoked_at  TEXT
			);
			CREATE INDEX idx_sessions_token ON sessions (token);
		`,
	},
	{
		version:     "004",
		description: "attachment metadata",
		sql: `
			CREATE TABLE attachments (
				id           TEXT PRIMARY KEY,
				employee_id  TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
				kind         TEXT NOT NULL
				             CHECK (kind IN ('profile_image', 'cv', 'document')),
				filename     TEXT NOT NULL,
				content_type TEXT NOT NULL,
				size_bytes   INTEGER NOT NULL DEFAULT 0,
				created_at   TEXT NOT NULL
			);
			CREATE INDEX idx_attachments_employee ON attachments (employee_id);
		`,
	},
}

// Migrate applies all pending migrations in version order, each inside its
// own transaction, recording applied versions in schema_migrations.
func (p *Pool) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version     TEXT PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  TEXT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("failed to initialise schema_migrations: %w", err)
	}

	applied, err := p.AppliedVersions(ctx)
	if err != nil {
		return err
	}
	appliedSet := make(map[string]struct{}, len(applied))
	for _, version := range applied {
		appliedSet[version] = struct{}{}
	}

	for _, m := range migrations {
		if _, ok := appliedSet[m.version]; ok {
			continue
		}
		err := p.WithTransaction(ctx, func(tx *sql.Tx) error {
			if _, err := tx.Exec(m.sql); err != nil {
				return err
			}
			_, err := tx.Exec(
				`INSERT INTO schema_migrations (version, description, applied_at) VALUES (?, ?, datetime('now'))`,
				m.version, m.description,
			)
			return err
		})
		if err != nil {
			return fmt.Errorf("migration %s (%s) failed: %w", m.version, m.description, err)
		}
	}

	return nil
}

// AppliedVersions returns the migration versions recorded as applied, in
// version order.
func (p *Pool) AppliedVersions(ctx context.Context) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT version FROM schema_migrations ORDER BY version ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema_migrations: %w", err)
	}
	defer rows.Close()

	var versions []string
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		versions = append(versions, version)
	}
	return versions, rows.Err()
}
