package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

// resetCommandState restores the package-level flag variables and Viper so
// tests do not leak state into each other.
func resetCommandState(t *testing.T) {
	t.Helper()
	viper.Reset()
	configPath = ""
	dryRun = false
	verbosity = 0
	quiet = false
	logFormat = "text"
	logFile = ""
	statusOutput = "table"
	t.Cleanup(func() { viper.Reset() })
}

// writeRunConfig lays out a populated source directory, a target root, and
// a config file pointing at both. Returns the config path and the target root.
func writeRunConfig(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	source := filepath.Join(dir, "data")
	target := filepath.Join(dir, "snapshots")
	if err := os.MkdirAll(source, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(source, "file.txt"), []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}

	content := fmt.Sprintf(`[source]
path = %q

[target]
path = %q

[retention]
hours = 3
`, source, target)

	path := filepath.Join(dir, "pirouette.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path, target
}

// execute runs the CLI with the given arguments and returns captured
// stdout and the error from Execute.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}
