package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/pirouette/internal/errors"
	"github.com/thoreinstein/pirouette/internal/runner"
)

var statusOutput string

func init() {
	statusCmd.Flags().StringVarP(&statusOutput, "output", "o", "table",
		"output format: table, json, yaml")
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current state of every retention tier",
	Long: `Show, for every configured retention tier, how many snapshots exist,
the tier's capacity, the newest snapshot's timestamp, and whether a new
snapshot would be taken on the next run.

The command is read-only: no directories are created and no snapshots are
written or deleted.`,
	Example: `  # Tabular overview
  pirouette status

  # Machine-readable output
  pirouette status --output json
  pirouette status --output yaml`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	statuses, err := runner.Status(slog.Default(), cfg)
	if err != nil {
		return errors.NewSystemError(err, "check that the target directory is readable")
	}

	w := cmd.OutOrStdout()
	switch statusOutput {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(statuses), "encoding output")
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return errors.Wrap(enc.Encode(statuses), "encoding output")
	case "table":
		return printStatusTable(w, statuses)
	default:
		return errors.NewUserError(
			errors.Newf("unknown output format %q", statusOutput),
			"valid formats: table, json, yaml")
	}
}

func printStatusTable(w io.Writer, statuses []runner.TierStatus) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIER\tSNAPSHOTS\tMAX\tNEWEST\tDUE")
	for _, s := range statuses {
		newest := "-"
		if s.Newest != nil {
			newest = s.Newest.Local().Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%v\n", s.Tier, s.Snapshots, s.MaxCount, newest, s.Due)
	}
	return errors.Wrap(tw.Flush(), "writing table")
}
