package db

import (
	"database/sql"
	"fmt"
)

// EnsureSchema creates every table the application needs. Cascade deletes
// are enforced here through foreign keys, not in application code.
func EnsureSchema(database *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			avatar TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS workspaces (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			workspace_id TEXT NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			deadline INTEGER,
			status TEXT NOT NULL DEFAULT 'pending',
			assigned_to TEXT REFERENCES users(id) ON DELETE SET NULL,
			project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			date INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'upcoming',
			project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS reminders (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			due_date INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'active',
			project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS project_content (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL DEFAULT 'README',
			title TEXT,
			content TEXT NOT NULL DEFAULT '',
			path TEXT,
			project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE
		)`,
	}

	for _, stmt := range statements {
		if _, err := database.Exec(stmt); err != nil {
			return fmt.Errorf("schema exec failed: %w", err)
		}
	}

	return nil
}
