package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/studiowebux/harsample/internal/history"
	"github.com/studiowebux/harsample/internal/report"
	"gopkg.in/yaml.v3"
)

// ListHistory prints recorded runs, newest first. A non-empty search term
// fuzzy-matches against sources and output paths.
func ListHistory(mgr *history.Manager, limit int, search string, w io.Writer) error {
	if search != "" {
		found, err := mgr.SearchRuns(search, limit)
		if err != nil {
			return fmt.Errorf("failed to search history: %w", err)
		}
		fmt.Fprint(w, report.RenderRuns(found))
		return nil
	}

	listed, err := mgr.ListRuns(limit)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	fmt.Fprint(w, report.RenderRuns(listed))
	return nil
}

// ShowRun prints one run. format is text, json or yaml.
func ShowRun(mgr *history.Manager, id, format string, w io.Writer) error {
	run, err := mgr.GetRun(id)
	if err != nil {
		return err
	}

	switch format {
	case "", "text":
		fmt.Fprint(w, report.RenderRun(run))
	case "json":
		data, err := json.MarshalIndent(run, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal run: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case "yaml":
		data, err := yaml.Marshal(run)
		if err != nil {
			return fmt.Errorf("failed to marshal run: %w", err)
		}
		fmt.Fprint(w, string(data))
	default:
		return fmt.Errorf("unsupported output format '%s' (text/json/yaml)", format)
	}
	return nil
}

// DeleteRun removes a run from history
func DeleteRun(mgr *history.Manager, id string, w io.Writer) error {
	if err := mgr.DeleteRun(id); err != nil {
		return err
	}
	fmt.Fprintf(w, "Deleted run %s\n", id)
	return nil
}
