// Package commands implements the CLI commands for pirouette.
package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/pirouette/internal/config"
	"github.com/thoreinstein/pirouette/internal/errors"
	"github.com/thoreinstein/pirouette/internal/logging"
)

// version is set at build time via ldflags.
// Default to a development version for local builds.
const version = "1.0.0"

// configPath holds the value of the --config flag.
var configPath string

// dryRun holds the value of the --dry-run flag. It ORs with the config's
// options.dry_run setting.
var dryRun bool

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// logLevel is shared by every installed handler so the config file's
// log_level can adjust the level later without rebuilding the handler
// chain (which would drop the --log-file handler).
var logLevel = new(slog.LevelVar)

func init() {
	cobra.OnInitialize(config.Init)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to pirouette.toml (default: $PIROUETTE_CONFIG_FILE, then search)")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false,
		"log intended mutations without performing them")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("pirouette version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

var rootCmd = &cobra.Command{
	Use:   "pirouette",
	Short: "Time-bucketed snapshot rotation for files and directories",
	Long: `pirouette maintains time-bucketed, count-bounded snapshots of a source
path. On every run it decides, per configured retention tier (hours, days,
weeks, months, years), whether a new snapshot is due, materializes it as a
plain directory copy or a compressed tarball, and evicts the oldest
snapshots once a tier exceeds its configured capacity.

pirouette performs exactly one pass per invocation and exits; run it from
cron, a systemd timer, or any other external scheduler.`,
	Example: `  # One rotation+cleanup pass with the config found in the usual places
  pirouette run

  # Preview what a pass would do
  pirouette run --dry-run

  # Show per-tier state without touching anything
  pirouette status

  # Write a starter configuration
  pirouette init`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setupLogging(cmd)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
// The config file's options.log_level applies later, once the config is
// loaded, and only when no flag raised the level explicitly.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(nil, "cannot use --quiet and --verbose together")
	}

	switch {
	case quiet:
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(logging.LevelFromVerbosity(verbosity))
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: logLevel,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

// loadConfig loads and validates the configuration for commands that need
// it, applying the config's log_level and the --dry-run flag.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, errors.NewConfigError(err)
	}

	if errs := config.Validate(cfg); len(errs) > 0 {
		return nil, errors.NewConfigError(config.JoinErrors(errs))
	}

	// Flags outrank the config file: -v/-q already set the level in
	// PersistentPreRunE, so only the silent default defers to log_level.
	// Adjusting the shared level keeps the handler chain installed by
	// setupLogging intact, including the --log-file handler.
	if verbosity == 0 && !quiet {
		logLevel.Set(logging.ParseLevel(cfg.Options.LogLevel))
	}

	cfg.Options.DryRun = cfg.Options.DryRun || dryRun
	return cfg, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
