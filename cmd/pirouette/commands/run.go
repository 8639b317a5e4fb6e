package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/pirouette/internal/errors"
	"github.com/thoreinstein/pirouette/internal/runner"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Perform one rotation and cleanup pass",
	Long: `Perform one full rotation+cleanup pass over all configured tiers.

For each tier, pirouette checks whether the newest snapshot has aged past
the tier's period, writes a new snapshot if so, and then trims the tier
back to its configured capacity by deleting the oldest snapshots.

Tiers are processed independently: a failure in one tier is reported but
does not block the others. The process exits non-zero if any tier failed.`,
	Example: `  # One pass
  pirouette run

  # Preview without mutating the filesystem
  pirouette run --dry-run

  # Use an explicit config file
  pirouette run --config /etc/pirouette.toml`,
	RunE: runRun,
}

func runRun(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := runner.Run(slog.Default(), cfg); err != nil {
		return errors.NewSystemError(err, "see the log output above for per-tier details")
	}
	return nil
}
