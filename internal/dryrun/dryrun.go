// Package dryrun provides the guarded-execution wrapper used at every
// filesystem mutation site. Dry-run is a pervasive flag, not a separate
// code path: callers describe the mutation and hand over a closure, and
// the guard either executes it or logs what would have happened.
package dryrun

import "log/slog"

// Guard wraps mutating operations with the dry-run check.
type Guard struct {
	// DryRun substitutes a log line for every mutation when true.
	DryRun bool
	// Log receives the "would ..." lines in dry-run mode.
	Log *slog.Logger
}

// New returns a Guard. A nil logger is replaced by slog.Default.
func New(dryRun bool, log *slog.Logger) Guard {
	if log == nil {
		log = slog.Default()
	}
	return Guard{DryRun: dryRun, Log: log}
}

// Do runs fn unless the guard is in dry-run mode, in which case it logs the
// description and reports success without touching the filesystem.
func (g Guard) Do(description string, fn func() error) error {
	if g.DryRun {
		g.Log.Info("dry-run: skipping mutation", "would", description)
		return nil
	}
	return fn()
}
