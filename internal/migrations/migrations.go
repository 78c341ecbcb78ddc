package migrations

import (
	"database/sql"
	"fmt"
)

// Migration represents a single database migration
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// AllMigrations contains all database migrations in order
var AllMigrations = []Migration{
	{
		Version: 1,
		Name:    "Add lookup indices for runs",
		Up: `
			CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp DESC);
			CREATE INDEX IF NOT EXISTS idx_run_categories_run_id ON run_categories(run_id);
		`,
		Down: `
			DROP INDEX IF EXISTS idx_runs_timestamp;
			DROP INDEX IF EXISTS idx_run_categories_run_id;
		`,
	},
	{
		Version: 2,
		Name:    "Add seed index for reproducibility lookups",
		Up: `
			CREATE INDEX IF NOT EXISTS idx_runs_seed_limit ON runs(seed, sample_limit);
		`,
		Down: `
			DROP INDEX IF EXISTS idx_runs_seed_limit;
		`,
	},
	{
		Version: 3,
		Name:    "Add saved where-filter bookmarks",
		Up: `
			CREATE TABLE IF NOT EXISTS filter_bookmarks (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				expression TEXT NOT NULL UNIQUE,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
		`,
		Down: `
			DROP TABLE IF EXISTS filter_bookmarks;
		`,
	},
}

// InitSchema creates all tables required across all modules
// This must be called before running migrations to ensure all tables exist
func InitSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		sources TEXT NOT NULL,
		output_path TEXT NOT NULL,
		format TEXT NOT NULL,
		seed INTEGER NOT NULL,
		sample_limit INTEGER NOT NULL,
		total_entries INTEGER NOT NULL DEFAULT 0,
		filtered_entries INTEGER NOT NULL DEFAULT 0,
		selected_entries INTEGER NOT NULL DEFAULT 0,
		written_entries INTEGER NOT NULL DEFAULT 0,
		deficit INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS run_categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		category TEXT NOT NULL,
		share REAL NOT NULL DEFAULT 0,
		bucket INTEGER NOT NULL DEFAULT 0,
		quota INTEGER NOT NULL DEFAULT 0,
		selected INTEGER NOT NULL DEFAULT 0,
		shortfall INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

// Run executes all pending migrations on the database
func Run(db *sql.DB) error {
	// Initialize schema first to ensure all tables exist
	if err := InitSchema(db); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	// Create migrations tracking table if it doesn't exist
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion, err := GetCurrentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	// Apply pending migrations
	for _, migration := range AllMigrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", migration.Version, err)
		}

		if _, err := tx.Exec(migration.Up); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to apply migration %d (%s): %w", migration.Version, migration.Name, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
			migration.Version,
			migration.Name,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// GetCurrentVersion returns the current database schema version
func GetCurrentVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow(`
		SELECT COALESCE(MAX(version), 0)
		FROM schema_migrations
	`).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return 0, err
	}
	return version, nil
}
