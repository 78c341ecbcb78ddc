package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sahilm/fuzzy"
	"github.com/studiowebux/harsample/internal/config"
	"github.com/studiowebux/harsample/internal/migrations"
	"github.com/studiowebux/harsample/internal/types"
)

const timestampLayout = "2006-01-02 15:04:05"

// ErrRunNotFound is returned when no run matches an ID
var ErrRunNotFound = errors.New("run not found")

// Manager stores generate runs in SQLite
type Manager struct {
	db *sql.DB
}

func NewManager(dbPath string) (*Manager, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, config.DirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_loc=auto")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	// Run database migrations
	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Manager{db: db}, nil
}

func (m *Manager) Close() error {
	return m.db.Close()
}

// SaveRun stores a run and its categories. An empty ID and a zero timestamp
// are filled in, and written back to run only once the run is committed.
func (m *Manager) SaveRun(run *types.Run) error {
	id := run.ID
	if id == "" {
		id = uuid.NewString()
	}
	timestamp := run.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	sourcesJSON, err := json.Marshal(run.Sources)
	if err != nil {
		return fmt.Errorf("failed to marshal sources: %w", err)
	}

	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (
			id, timestamp, sources, output_path, format, seed, sample_limit,
			total_entries, filtered_entries, selected_entries, written_entries, deficit
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id,
		timestamp.Local().Format(timestampLayout),
		string(sourcesJSON),
		run.OutputPath,
		run.Format,
		run.Seed,
		run.Limit,
		run.Total,
		run.Filtered,
		run.Selected,
		run.Written,
		run.Deficit,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	for i, c := range run.Categories {
		_, err := tx.Exec(`
			INSERT INTO run_categories (run_id, position, category, share, bucket, quota, selected, shortfall)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, id, i, c.Category, c.Share, c.Bucket, c.Quota, c.Selected, c.Shortfall)
		if err != nil {
			return fmt.Errorf("failed to save run category %s: %w", c.Category, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	run.ID = id
	run.Timestamp = timestamp
	return nil
}

// ListRuns returns the most recent runs, newest first (limit <= 0 for all).
// Categories are not loaded; use GetRun for details.
func (m *Manager) ListRuns(limit int) ([]types.Run, error) {
	query := `
		SELECT id, timestamp, sources, output_path, format, seed, sample_limit,
		       total_entries, filtered_entries, selected_entries, written_entries, deficit
		FROM runs
		ORDER BY timestamp DESC, rowid DESC
	`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := m.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// GetRun loads a run with its categories. id may be a unique prefix.
func (m *Manager) GetRun(id string) (*types.Run, error) {
	if id == "" {
		return nil, ErrRunNotFound
	}

	rows, err := m.db.Query(`
		SELECT id, timestamp, sources, output_path, format, seed, sample_limit,
		       total_entries, filtered_entries, selected_entries, written_entries, deficit
		FROM runs
		WHERE id LIKE ? ESCAPE '\'
		LIMIT 2
	`, escapeLike(id)+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}
	runs, err := scanRuns(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	switch len(runs) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case 1:
	default:
		return nil, fmt.Errorf("run ID prefix '%s' is ambiguous", id)
	}

	run := runs[0]
	catRows, err := m.db.Query(`
		SELECT category, share, bucket, quota, selected, shortfall
		FROM run_categories
		WHERE run_id = ?
		ORDER BY position
	`, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load run categories: %w", err)
	}
	defer catRows.Close()

	for catRows.Next() {
		var c types.RunCategory
		if err := catRows.Scan(&c.Category, &c.Share, &c.Bucket, &c.Quota, &c.Selected, &c.Shortfall); err != nil {
			return nil, fmt.Errorf("failed to scan run category: %w", err)
		}
		run.Categories = append(run.Categories, c)
	}
	if err := catRows.Err(); err != nil {
		return nil, err
	}

	return &run, nil
}

// SearchRuns fuzzy-matches term against run sources and output paths,
// best matches first
func (m *Manager) SearchRuns(term string, limit int) ([]types.Run, error) {
	runs, err := m.ListRuns(0)
	if err != nil {
		return nil, err
	}
	if term == "" {
		if limit > 0 && len(runs) > limit {
			runs = runs[:limit]
		}
		return runs, nil
	}

	targets := make([]string, len(runs))
	for i, run := range runs {
		targets[i] = strings.Join(append(append([]string{}, run.Sources...), run.OutputPath), " ")
	}

	matches := fuzzy.Find(term, targets)
	result := make([]types.Run, 0, len(matches))
	for _, match := range matches {
		result = append(result, runs[match.Index])
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}

// DeleteRun removes a run and its categories
func (m *Manager) DeleteRun(id string) error {
	run, err := m.GetRun(id)
	if err != nil {
		return err
	}

	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM run_categories WHERE run_id = ?", run.ID); err != nil {
		return fmt.Errorf("failed to delete run categories: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM runs WHERE id = ?", run.ID); err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return tx.Commit()
}

func scanRuns(rows *sql.Rows) ([]types.Run, error) {
	var runs []types.Run

	for rows.Next() {
		var run types.Run
		var timestamp string
		var sourcesJSON string

		err := rows.Scan(
			&run.ID,
			&timestamp,
			&sourcesJSON,
			&run.OutputPath,
			&run.Format,
			&run.Seed,
			&run.Limit,
			&run.Total,
			&run.Filtered,
			&run.Selected,
			&run.Written,
			&run.Deficit,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		run.Timestamp = parseTimestamp(timestamp)

		if err := json.Unmarshal([]byte(sourcesJSON), &run.Sources); err != nil {
			return nil, fmt.Errorf("failed to unmarshal sources: %w", err)
		}

		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// parseTimestamp reads a stored timestamp as local time. The driver may hand
// DATETIME columns back as RFC3339; unparsable values yield the zero time.
func parseTimestamp(s string) time.Time {
	if t, err := time.ParseInLocation(timestampLayout, s, time.Local); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}

// escapeLike escapes LIKE wildcards in a user supplied prefix
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
