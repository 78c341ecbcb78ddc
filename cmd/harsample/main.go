package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/studiowebux/harsample/internal/cli"
	"github.com/studiowebux/harsample/internal/config"
	"github.com/studiowebux/harsample/internal/history"
	"github.com/studiowebux/harsample/internal/sampling"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	version = "0.1.0"

	logger *zap.Logger
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "harsample",
	Short: "Turn browser HAR captures into benchmark test cases",
	Long: `harsample selects a reproducible, content-type balanced sample of
HTTP exchanges from HAR captures and writes them as test cases.

Examples:
  harsample generate capture.har                    # 100 entries, seed 42
  harsample generate a.har b.har -n 50 --seed 7     # Merge captures
  harsample generate capture.har -o cases.yaml      # YAML output
  harsample generate capture.har --exclude 'glob:**/*.woff2'
  harsample inspect testdata/http_traffic.json      # Category breakdown
  harsample history                                 # Recorded runs`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if flagVerbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate <har>...",
	Short: "Sample HAR entries into a test case file",
	Long: `Load one or more HAR captures, drop excluded URLs, draw a stratified
sample by response content type and write the selection as test cases.

Flags override the settings file (~/.harsample/settings.yaml, or
.harsample.yaml in the current directory).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <testcases>",
	Short: "Show the content type breakdown of a test case file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Inspect(args[0], cmd.OutOrStdout())
	},
}

var categorizeCmd = &cobra.Command{
	Use:   "categorize <content-type>...",
	Short: "Print the category of content type labels",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cli.Categorize(args, sampling.NewCategorizer(sampling.DefaultRules), cmd.OutOrStdout())
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded generate runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(func(mgr *history.Manager) error {
			return cli.ListHistory(mgr, flagHistoryLimit, flagHistorySearch, cmd.OutOrStdout())
		})
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a recorded run (ID prefix accepted)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(func(mgr *history.Manager) error {
			return cli.ShowRun(mgr, args[0], flagHistoryOutput, cmd.OutOrStdout())
		})
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a recorded run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(func(mgr *history.Manager) error {
			return cli.DeleteRun(mgr, args[0], cmd.OutOrStdout())
		})
	},
}

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Manage saved --where expressions",
	Long: `Saved filters are referenced from generate with --where @<id>.`,
}

var filterSaveCmd = &cobra.Command{
	Use:   "save <expression>",
	Short: "Save a JMESPath where expression",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(func(mgr *history.Manager) error {
			return cli.SaveFilter(mgr, args[0], cmd.OutOrStdout())
		})
	},
}

var filterListCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List saved filters",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) > 0 {
			query = args[0]
		}
		return withHistory(func(mgr *history.Manager) error {
			return cli.ListFilters(mgr, query, cmd.OutOrStdout())
		})
	},
}

var filterDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved filter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(func(mgr *history.Manager) error {
			return cli.DeleteFilter(mgr, args[0], cmd.OutOrStdout())
		})
	},
}

// Flags for generate
var (
	flagOutput    string
	flagLimit     int
	flagSeed      int64
	flagFormat    string
	flagExclude   []string
	flagWhere     string
	flagConfig    string
	flagNoHistory bool
	flagBodies    bool
)

// Flags for history
var (
	flagHistoryLimit  int
	flagHistorySearch string
	flagHistoryOutput string
)

var flagVerbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	generateCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output file (- for stdout)")
	generateCmd.Flags().IntVarP(&flagLimit, "limit", "n", 0, "Number of entries to select")
	generateCmd.Flags().Int64Var(&flagSeed, "seed", 0, "Random seed")
	generateCmd.Flags().StringVarP(&flagFormat, "format", "f", "", "Output format (json/yaml, default from extension)")
	generateCmd.Flags().StringArrayVar(&flagExclude, "exclude", nil, "Exclude URLs containing pattern (glob: prefix for path globs), can be repeated")
	generateCmd.Flags().StringVar(&flagWhere, "where", "", "Keep entries matching a JMESPath expression (@id for a saved filter)")
	generateCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "Settings file")
	generateCmd.Flags().BoolVar(&flagNoHistory, "no-history", false, "Do not record this run")
	generateCmd.Flags().BoolVar(&flagBodies, "bodies", false, "Include request and response bodies")

	historyCmd.PersistentFlags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "Maximum runs to list (0 for all)")
	historyCmd.Flags().StringVarP(&flagHistorySearch, "search", "s", "", "Fuzzy search sources and output paths")
	historyShowCmd.Flags().StringVarP(&flagHistoryOutput, "output", "o", "text", "Output format (text/json/yaml)")

	filterCmd.AddCommand(filterSaveCmd)
	filterCmd.AddCommand(filterListCmd)
	filterCmd.AddCommand(filterDeleteCmd)

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(categorizeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(filterCmd)
}

// runGenerate merges settings with flags and runs the pipeline
func runGenerate(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	settings, err := cli.LoadSettings(flagConfig)
	if err != nil {
		return err
	}
	logger.Debug("Loaded settings", zap.String("path", settingsSource()))

	opts, err := cli.NewGenerateOptions(settings, args)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		opts.Output = flagOutput
	}
	if flags.Changed("limit") {
		opts.Limit = flagLimit
	}
	if flags.Changed("seed") {
		opts.Seed = flagSeed
	}
	if flags.Changed("format") {
		opts.Format = flagFormat
	}
	if flags.Changed("exclude") {
		opts.Exclude = append(opts.Exclude, flagExclude...)
	}
	if flags.Changed("where") {
		opts.Where = flagWhere
	}
	if flags.Changed("bodies") {
		opts.IncludeBodies = flagBodies
	}
	opts.Logger = logger
	opts.Stderr = cmd.ErrOrStderr()

	record := settings.HistoryEnabled() && !flagNoHistory
	needsFilter := strings.HasPrefix(opts.Where, cli.BookmarkPrefix)
	var mgr *history.Manager
	if record || needsFilter {
		mgr, err = history.NewManager(config.DatabasePath)
		if err != nil {
			if needsFilter {
				return err
			}
			logger.Warn("History disabled", zap.Error(err))
			mgr = nil
		} else {
			defer mgr.Close()
		}
	}
	if record {
		opts.History = mgr
	}

	opts.Where, err = cli.ResolveWhere(mgr, opts.Where)
	if err != nil {
		return err
	}

	run, err := cli.Generate(cmd.Context(), opts)
	if err != nil {
		return err
	}
	if run.ID != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Run %s recorded\n", run.ID[:8])
	}
	return nil
}

func settingsSource() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.GetSettingsFilePath()
}

// withHistory opens the run history for the duration of fn
func withHistory(fn func(mgr *history.Manager) error) error {
	if err := config.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}
	mgr, err := history.NewManager(config.DatabasePath)
	if err != nil {
		return err
	}
	defer mgr.Close()
	return fn(mgr)
}
