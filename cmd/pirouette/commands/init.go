package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/pirouette/internal/config"
	"github.com/thoreinstein/pirouette/internal/errors"
	"github.com/thoreinstein/pirouette/pkg/fileutil"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter configuration file",
	Long: `Write a starter pirouette.toml with example source, target, and
retention settings. Edit the source and target paths before the first run.

Refuses to overwrite an existing file.`,
	Example: `  # Write ./pirouette.toml
  pirouette init

  # Write to an explicit location
  pirouette init /etc/pirouette.toml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	path := config.AppName + ".toml"
	if len(args) == 1 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil {
		return errors.NewUserError(
			errors.Newf("%s already exists", path),
			"remove the file first, or pass a different path")
	}

	if err := fileutil.AtomicWriteTOML(path, config.Default()); err != nil {
		return errors.NewSystemError(errors.Wrapf(err, "writing %s", path),
			"check directory permissions")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s. Edit the source and target paths before running.\n", path)
	return nil
}
