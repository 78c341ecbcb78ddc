package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/studiowebux/harsample/internal/config"
	"github.com/studiowebux/harsample/internal/converter"
	"github.com/studiowebux/harsample/internal/filter"
	"github.com/studiowebux/harsample/internal/history"
	"github.com/studiowebux/harsample/internal/report"
	"github.com/studiowebux/harsample/internal/sampling"
	"github.com/studiowebux/harsample/internal/types"
	"go.uber.org/zap"
)

// GenerateOptions contains options for turning HAR captures into test cases
type GenerateOptions struct {
	Inputs        []string
	Output        string // "-" for stdout
	Format        string // json, yaml, or empty to infer from Output
	Limit         int
	Seed          int64
	Exclude       []string
	Where         string // JMESPath expression over each entry
	IncludeBodies bool
	MaxBodyBytes  int
	Sampling      sampling.Config

	// History records the run when set
	History *history.Manager
	// Stderr receives the human-readable summary (defaults to os.Stderr)
	Stderr io.Writer
	Logger *zap.Logger
}

// NewGenerateOptions builds options from settings. Callers override
// individual fields from command-line flags afterwards.
func NewGenerateOptions(settings config.Settings, inputs []string) (GenerateOptions, error) {
	samplingCfg, err := settings.SamplingConfig()
	if err != nil {
		return GenerateOptions{}, fmt.Errorf("invalid settings: %w", err)
	}
	return GenerateOptions{
		Inputs:        inputs,
		Output:        settings.Output,
		Format:        settings.Format,
		Limit:         settings.Limit,
		Seed:          settings.Seed,
		Exclude:       append([]string(nil), settings.Exclude...),
		Where:         settings.Where,
		IncludeBodies: settings.IncludeBodies,
		MaxBodyBytes:  settings.MaxBodyBytes,
		Sampling:      samplingCfg,
	}, nil
}

// Generate loads the captures, filters and samples their entries, converts the
// selection to test cases and writes them. It returns the recorded run.
func Generate(ctx context.Context, opts GenerateOptions) (*types.Run, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	if len(opts.Inputs) == 0 {
		return nil, errors.New("no HAR files given")
	}
	if opts.Limit < 0 {
		return nil, fmt.Errorf("limit must not be negative, got %d", opts.Limit)
	}
	if opts.Output == "" {
		return nil, errors.New("no output path given")
	}
	format, err := converter.ResolveFormat(opts.Format, opts.Output)
	if err != nil {
		return nil, err
	}
	if err := filter.ValidatePatterns(opts.Exclude); err != nil {
		return nil, err
	}
	if opts.Where != "" && !filter.IsValidJMESPath(opts.Where) {
		return nil, fmt.Errorf("invalid JMESPath expression: %s", opts.Where)
	}

	entries, err := converter.LoadHARFiles(ctx, opts.Inputs)
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded captures", zap.Strings("files", opts.Inputs), zap.Int("entries", len(entries)))

	filtered := filter.ExcludeByURL(entries, opts.Exclude)
	if opts.Where != "" {
		filtered, err = filter.Where(filtered, opts.Where)
		if err != nil {
			return nil, err
		}
	}
	logger.Info("Filtered entries", zap.Int("kept", len(filtered)), zap.Int("dropped", len(entries)-len(filtered)))

	cfg := opts.Sampling
	if cfg.Distribution == nil {
		cfg.Distribution = sampling.DefaultDistribution
	}
	selection := &sampling.Report{}
	cfg.Observer = sampling.Observers(cfg.Observer, selection, newZapObserver(logger))

	selected, err := sampling.SelectSeeded(filtered, (*types.HAREntry).MimeType, opts.Limit, cfg, opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}

	cases, warnings := converter.ConvertEntries(selected, converter.ConvertOptions{
		IncludeBodies: opts.IncludeBodies,
		MaxBodyBytes:  opts.MaxBodyBytes,
	})
	for _, w := range warnings {
		logger.Warn("Skipping entry", zap.Int("index", w.Index), zap.String("url", w.URL), zap.Error(w.Err))
	}

	if err := converter.WriteTestCases(opts.Output, cases, format); err != nil {
		return nil, err
	}

	fmt.Fprint(stderr, report.RenderSelection(selection, cfg.Distribution))
	fmt.Fprintf(stderr, "Wrote %d test cases to %s\n", len(cases), opts.Output)

	run := &types.Run{
		Sources:    append([]string(nil), opts.Inputs...),
		OutputPath: opts.Output,
		Format:     format,
		Seed:       opts.Seed,
		Limit:      opts.Limit,
		Total:      len(entries),
		Filtered:   len(filtered),
		Selected:   len(selected),
		Written:    len(cases),
		Deficit:    selection.DeficitCount,
		Categories: runCategories(selection, cfg.Distribution),
	}

	if opts.History != nil {
		if err := opts.History.SaveRun(run); err != nil {
			logger.Warn("Failed to record run", zap.Error(err))
		} else {
			logger.Debug("Recorded run", zap.String("id", run.ID))
		}
	}

	return run, nil
}

func runCategories(r *sampling.Report, dist sampling.Distribution) []types.RunCategory {
	categories := make([]types.RunCategory, 0, len(r.Categories))
	for _, s := range r.Categories {
		categories = append(categories, types.RunCategory{
			Category:  s.Category.String(),
			Share:     dist.Proportion(s.Category),
			Bucket:    s.Bucket,
			Quota:     s.Quota,
			Selected:  s.Selected(),
			Shortfall: s.Shortfall,
		})
	}
	return categories
}
