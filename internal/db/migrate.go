package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS resources (
		id              TEXT PRIMARY KEY,
		type            TEXT NOT NULL
		                CHECK(type IN ('developer','analyst')),
		skill_level     INTEGER NOT NULL CHECK(skill_level >= 0),
		availability    REAL NOT NULL CHECK(availability >= 0 AND availability <= 1),
		current_project TEXT,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS step_samples (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		step_id     TEXT NOT NULL,
		days        REAL NOT NULL CHECK(days > 0),
		recorded_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_step_samples_step ON step_samples(step_id, id)`,
	`CREATE TABLE IF NOT EXISTS analysis_runs (
		id                     TEXT PRIMARY KEY,
		estimated_days         REAL NOT NULL,
		warning_status         TEXT NOT NULL
		                       CHECK(warning_status IN ('green','yellow','red')),
		completion_probability REAL NOT NULL
		                       CHECK(completion_probability >= 0 AND completion_probability <= 1),
		action                 TEXT NOT NULL
		                       CHECK(action IN ('ASSIGN_SENIOR_DEVELOPER','SCALE_INFRASTRUCTURE','CONTINUE_MONITORING')),
		resource_id            TEXT REFERENCES resources(id) ON DELETE SET NULL,
		created_at             TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_analysis_runs_created ON analysis_runs(created_at)`,
	// Record which completion model produced the probability
	`ALTER TABLE analysis_runs ADD COLUMN completion_model TEXT NOT NULL DEFAULT 'basic'`,
}
