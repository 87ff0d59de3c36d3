package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Statements are idempotent and are
// re-run on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	// The single row holding the logged-in user. id is always 'current'.
	`CREATE TABLE IF NOT EXISTS auth_session (
		id TEXT PRIMARY KEY CHECK (id = 'current'),
		token TEXT NOT NULL,
		user_json TEXT NOT NULL,
		saved_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS preferences (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
}
