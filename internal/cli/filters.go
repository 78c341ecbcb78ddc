package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/studiowebux/harsample/internal/history"
	"github.com/studiowebux/harsample/internal/report"
)

// BookmarkPrefix marks a --where value that refers to a saved filter (@3)
const BookmarkPrefix = "@"

// ResolveWhere expands a saved filter reference into its expression.
// Other values are returned unchanged.
func ResolveWhere(mgr *history.Manager, where string) (string, error) {
	ref, ok := strings.CutPrefix(where, BookmarkPrefix)
	if !ok {
		return where, nil
	}
	id, err := strconv.Atoi(ref)
	if err != nil {
		return "", fmt.Errorf("invalid filter reference '%s'", where)
	}
	if mgr == nil {
		return "", fmt.Errorf("filter reference '%s' needs run history", where)
	}
	b, err := mgr.GetBookmark(id)
	if err != nil {
		return "", err
	}
	return b.Expression, nil
}

// SaveFilter stores a where expression for later use with --where @id
func SaveFilter(mgr *history.Manager, expression string, w io.Writer) error {
	saved, err := mgr.SaveBookmark(expression)
	if err != nil {
		return err
	}
	if !saved {
		fmt.Fprintln(w, "Filter already saved")
		return nil
	}
	fmt.Fprintln(w, "Filter saved")
	return nil
}

// ListFilters prints saved filters, newest first
func ListFilters(mgr *history.Manager, query string, w io.Writer) error {
	bookmarks, err := mgr.ListBookmarks(query)
	if err != nil {
		return err
	}
	fmt.Fprint(w, report.RenderBookmarks(bookmarks))
	return nil
}

// DeleteFilter removes a saved filter. id may carry the @ prefix.
func DeleteFilter(mgr *history.Manager, id string, w io.Writer) error {
	n, err := strconv.Atoi(strings.TrimPrefix(id, BookmarkPrefix))
	if err != nil {
		return fmt.Errorf("invalid filter ID '%s'", id)
	}
	if err := mgr.DeleteBookmark(n); err != nil {
		return err
	}
	fmt.Fprintf(w, "Deleted filter @%d\n", n)
	return nil
}
