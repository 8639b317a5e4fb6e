package retention

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/pirouette/internal/dryrun"
)

// IsRotationDue reports whether a new snapshot must be taken for the tier.
// Apart from creating the tier directory when it is missing (skipped in
// dry-run), the check has no side effects.
func IsRotationDue(log *slog.Logger, guard dryrun.Guard, target Target) (bool, error) {
	log.Debug("checking tier for rotation", "tier", target.Period.String(), "path", target.Path)

	if _, err := os.Stat(target.Path); err != nil {
		err := guard.Do(fmt.Sprintf("create tier directory %s", target.Path), func() error {
			return os.MkdirAll(target.Path, 0o755)
		})
		if err != nil {
			return false, errors.Wrapf(err, "creating tier directory %s", target.Path)
		}
	}

	entries, err := ListEntries(target.Path)
	if err != nil {
		// An unreadable (or, in dry-run, still absent) tier directory has
		// no baseline snapshot, so rotation is due.
		log.Debug("tier directory not listable, treating as empty", "path", target.Path, "error", err)
		return true, nil
	}

	if len(entries) == 0 {
		log.Info("no existing snapshots, rotation due", "tier", target.Period.String())
		return true, nil
	}

	newest := newestEntry(entries)
	return agedOut(log, target.Period, newest, time.Now()), nil
}

// newestEntry returns an entry with the maximum timestamp. Ties are broken
// arbitrarily; only the timestamp feeds the age comparison.
func newestEntry(entries []Entry) Entry {
	newest := entries[0]
	for _, entry := range entries[1:] {
		if entry.Timestamp.After(newest.Timestamp) {
			newest = entry
		}
	}
	return newest
}

// agedOut reports whether the newest snapshot is at least one period old.
// The bound is inclusive: an entry exactly at the threshold is due. A
// future-dated entry (clock skew) is never due and only logs a warning.
func agedOut(log *slog.Logger, period Period, newest Entry, now time.Time) bool {
	age := now.Sub(newest.Timestamp)
	if age < 0 {
		log.Warn("snapshot timestamp is in the future, is the system clock correct?",
			"path", newest.Path, "timestamp", newest.Timestamp)
		return false
	}

	due := age >= period.Threshold()
	log.Debug("compared newest snapshot age against threshold",
		"tier", period.String(), "age", age, "threshold", period.Threshold(), "due", due)
	return due
}
