package retention

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/thoreinstein/pirouette/internal/dryrun"
)

// Enforce trims a tier back to its configured capacity by deleting the
// oldest excess snapshots. It runs for every tier regardless of whether a
// snapshot was just written. Deletion is best-effort: per-entry failures
// are logged and do not abort the remaining evictions.
func Enforce(log *slog.Logger, guard dryrun.Guard, target Target) error {
	log.Debug("checking tier for expired snapshots", "tier", target.Period.String())

	entries, err := ListEntries(target.Path)
	if err != nil {
		// Nothing to trim in a directory we cannot read; recoverable.
		log.Warn("cannot list tier directory, skipping cleanup", "path", target.Path, "error", err)
		return nil
	}

	log.Info("enforcing retention",
		"tier", target.Period.String(), "snapshots", len(entries), "max_count", target.MaxCount)

	if len(entries) <= target.MaxCount {
		return nil
	}

	for _, entry := range evictionSet(entries, len(entries)-target.MaxCount) {
		log.Info("deleting expired snapshot", "path", entry.Path)
		err := guard.Do(fmt.Sprintf("delete snapshot %s", entry.Path), func() error {
			return deleteEntry(entry)
		})
		if err != nil {
			log.Error("failed to delete snapshot", "path", entry.Path, "error", err)
		}
	}

	return nil
}

// evictionSet returns the excess oldest entries. The sort is stable, so
// equal-timestamp entries keep a deterministic order within one run; which
// of two equal entries is evicted is otherwise arbitrary.
func evictionSet(entries []Entry, excess int) []Entry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted[:excess]
}

// deleteEntry removes a snapshot: directories recursively, files directly.
func deleteEntry(entry Entry) error {
	info, err := os.Lstat(entry.Path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return os.RemoveAll(entry.Path)
	}
	return os.Remove(entry.Path)
}
