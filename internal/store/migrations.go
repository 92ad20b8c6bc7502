package store

import "fmt"

// migrations are applied in order; each must be idempotent.
var migrations = []string{
	// Key/value application settings
	`CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,

	// One row per finished counting session
	`CREATE TABLE IF NOT EXISTS workouts (
		id TEXT PRIMARY KEY,
		started_at DATETIME NOT NULL,
		ended_at DATETIME NOT NULL,
		right_reps INTEGER NOT NULL DEFAULT 0 CHECK(right_reps >= 0),
		left_reps INTEGER NOT NULL DEFAULT 0 CHECK(left_reps >= 0),
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE INDEX IF NOT EXISTS idx_workouts_started_at ON workouts(started_at)`,
}

func (s *Store) runMigrations() error {
	for i, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
