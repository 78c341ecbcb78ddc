package history

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/studiowebux/harsample/internal/filter"
)

// ErrBookmarkNotFound is returned when no bookmark has the given ID
var ErrBookmarkNotFound = errors.New("bookmark not found")

// Bookmark is a saved --where expression
type Bookmark struct {
	ID         int       `json:"id" yaml:"id"`
	Expression string    `json:"expression" yaml:"expression"`
	CreatedAt  time.Time `json:"createdAt" yaml:"createdAt"`
}

// SaveBookmark stores a JMESPath expression. It returns false when the
// expression was already saved.
func (m *Manager) SaveBookmark(expression string) (bool, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return false, fmt.Errorf("expression cannot be empty")
	}
	if !filter.IsValidJMESPath(expression) {
		return false, fmt.Errorf("invalid JMESPath expression: %s", expression)
	}

	result, err := m.db.Exec(`
		INSERT OR IGNORE INTO filter_bookmarks (expression, created_at)
		VALUES (?, ?)
	`, expression, time.Now().Local().Format(timestampLayout))
	if err != nil {
		return false, fmt.Errorf("failed to save bookmark: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check save result: %w", err)
	}
	return rows > 0, nil
}

// GetBookmark returns the bookmark with the given ID
func (m *Manager) GetBookmark(id int) (*Bookmark, error) {
	bookmarks, err := m.queryBookmarks("WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(bookmarks) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrBookmarkNotFound, id)
	}
	return &bookmarks[0], nil
}

// ListBookmarks returns bookmarks, newest first. A non-empty query keeps
// expressions containing it (case-insensitive).
func (m *Manager) ListBookmarks(query string) ([]Bookmark, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return m.queryBookmarks("")
	}
	return m.queryBookmarks(`WHERE expression LIKE ? ESCAPE '\'`, "%"+escapeLike(query)+"%")
}

// DeleteBookmark removes a bookmark by ID
func (m *Manager) DeleteBookmark(id int) error {
	result, err := m.db.Exec("DELETE FROM filter_bookmarks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %d", ErrBookmarkNotFound, id)
	}
	return nil
}

func (m *Manager) queryBookmarks(where string, args ...interface{}) ([]Bookmark, error) {
	rows, err := m.db.Query(`
		SELECT id, expression, created_at
		FROM filter_bookmarks
		`+where+`
		ORDER BY created_at DESC, id DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookmarks: %w", err)
	}
	defer rows.Close()

	var bookmarks []Bookmark
	for rows.Next() {
		var b Bookmark
		var createdAt string
		if err := rows.Scan(&b.ID, &b.Expression, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan bookmark: %w", err)
		}
		b.CreatedAt = parseTimestamp(createdAt)
		bookmarks = append(bookmarks, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookmarks: %w", err)
	}
	return bookmarks, nil
}
