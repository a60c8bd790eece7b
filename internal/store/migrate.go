package store

import (
	"context"
	"database/sql"
)

// migrate creates the schema and applies forward-only additive migrations.
// Every statement is idempotent, so this runs unconditionally on open.
func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			description TEXT,
			status TEXT NOT NULL DEFAULT 'active',
			created_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS time_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			task_id INTEGER NOT NULL,
			start_at INTEGER NOT NULL,
			end_at INTEGER,
			duration_ms INTEGER,
			FOREIGN KEY(task_id) REFERENCES tasks(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_time_entries_task ON time_entries(task_id);`,
		`CREATE INDEX IF NOT EXISTS idx_time_entries_start ON time_entries(start_at);`,
		`CREATE TABLE IF NOT EXISTS subtasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			task_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'active',
			created_at INTEGER NOT NULL,
			FOREIGN KEY(task_id) REFERENCES tasks(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_subtasks_task ON subtasks(task_id);`,
		`CREATE TABLE IF NOT EXISTS collections (
			name TEXT PRIMARY KEY
		);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}

	// tasks.collection arrived after the initial schema; add it if missing.
	var name string
	err := db.QueryRowContext(ctx,
		`SELECT name FROM pragma_table_info('tasks') WHERE name = 'collection'`).Scan(&name)
	switch {
	case err == sql.ErrNoRows:
		if _, err := db.ExecContext(ctx, `ALTER TABLE tasks ADD COLUMN collection TEXT`); err != nil {
			return err
		}
	case err != nil:
		return err
	}
	return nil
}
