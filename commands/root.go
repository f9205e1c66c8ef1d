package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/encukou/portingchart/internal/application/chart"
	"github.com/encukou/portingchart/internal/config"
	"github.com/encukou/portingchart/internal/util"
)

const (
	defaultLogFile = "~/.portingchart/logs/app.log"
)

// options holds the flags shared by every subcommand.
type options struct {
	// Logging related
	debug    bool
	logLevel string
	logFile  string

	// Configuration
	configFile string
	timezone   string
	since      string
	unit       string
	normalize  bool

	// Cache related
	cacheDir string
	noCache  bool
	reset    bool
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	return buildRootCmd(&options{})
}

func buildRootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "portingchart",
		Short: "Stacked area chart of porting status history",
		Long: `portingchart reads a CSV history of per-status package counts and draws it
as a stacked area chart.

Each record carries a timestamp, a status and a count. Statuses are stacked in
the configured order, either as absolute counts or as shares of the total.

Examples:
  portingchart render history.csv -o chart.svg           # Render an SVG chart
  portingchart render history.csv -o chart.svg --watch   # Re-render when the input changes
  portingchart render history.csv --normalize            # Stack shares instead of counts
  portingchart tooltip history.csv --date 2016-03-01     # Print the tooltip for a date
  portingchart tooltip history.csv --at 450 --format json
  portingchart explore history.csv                       # Move a cursor over the chart`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			util.CloseLogger()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "",
		"YAML chart configuration file")
	flags.StringVar(&opts.timezone, "timezone", "",
		"Timezone for dates without a zone, ticks and tooltips (e.g., UTC, Europe/Prague)")
	flags.StringVar(&opts.since, "since", "",
		"Drop samples before this date (YYYY-MM-DD, 'all' keeps everything)")
	flags.StringVar(&opts.unit, "unit", "",
		"Suffix appended to tooltip values")
	flags.BoolVar(&opts.normalize, "normalize", false,
		"Stack shares of the total instead of counts")
	flags.StringVar(&opts.cacheDir, "cache-dir", "",
		"Parsed record cache directory")
	flags.BoolVar(&opts.noCache, "no-cache", false,
		"Parse inputs without the record cache")
	flags.BoolVarP(&opts.reset, "reset", "r", false,
		"Clear cache before loading")
	flags.BoolVar(&opts.debug, "debug", false,
		"Enable debug mode")
	flags.StringVar(&opts.logLevel, "log-level", "info",
		"Log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFile, "log-file", defaultLogFile,
		"Log file path")

	cmd.AddCommand(
		newRenderCmd(opts),
		newTooltipCmd(opts),
		newExploreCmd(opts),
	)
	return cmd
}

func Execute() error {
	return rootCmd.Execute()
}

// setup initializes logging and the time provider.
func (o *options) setup() error {
	level := o.logLevel
	if o.debug {
		level = "debug"
	}

	logFile := expandPath(o.logFile)
	if err := ensureDir(filepath.Dir(logFile)); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := util.InitLogger(util.LoggerOptions{
		Level:   level,
		File:    logFile,
		Format:  util.FormatText,
		Console: o.debug,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// settings loads the configuration file if one is given and applies the flags
// that were set on top of it.
func (o *options) settings(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if o.configFile != "" {
		loaded, err := config.Load(expandPath(o.configFile))
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("timezone") {
		cfg.Timezone = o.timezone
	}
	if flags.Changed("since") {
		cfg.Since = o.since
		if strings.EqualFold(o.since, "all") {
			cfg.Since = ""
		}
	}
	if flags.Changed("unit") {
		cfg.Unit = o.unit
	}
	if flags.Changed("normalize") {
		cfg.Normalize = o.normalize
	}
	if flags.Changed("cache-dir") {
		cfg.CacheDir = o.cacheDir
	}
	cfg.CacheDir = expandPath(cfg.CacheDir)

	if err := util.InitializeTimeProvider(cfg.Timezone); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// orchestrator builds the chart pipeline for inputs.
func (o *options) orchestrator(cmd *cobra.Command, inputs []string) (*chart.Orchestrator, error) {
	cfg, err := o.settings(cmd)
	if err != nil {
		return nil, err
	}

	if o.reset {
		if err := clearCache(cfg.CacheDir); err != nil {
			return nil, fmt.Errorf("failed to clear cache: %w", err)
		}
		util.LogInfo("Cache cleared", util.F("dir", cfg.CacheDir))
	}

	return chart.NewOrchestrator(&chart.Config{
		Inputs:      inputs,
		Chart:       cfg,
		CacheDir:    cfg.CacheDir,
		NoCache:     o.noCache,
		Concurrency: runtime.NumCPU(),
	})
}

// Helper functions

func expandPath(path string) string {
	if path == "" {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

func clearCache(cacheDir string) error {
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			path := filepath.Join(cacheDir, entry.Name())
			if err := os.Remove(path); err != nil {
				return err
			}
		}
	}

	return nil
}
