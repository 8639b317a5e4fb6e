package retention

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
)

// Entry is a normalized view of one child of a tier directory: its path and
// a single comparable timestamp. It insulates the decision logic from raw
// filesystem metadata and its failure modes.
type Entry struct {
	Path      string
	Timestamp time.Time
}

// epoch is the sentinel timestamp for entries whose metadata could not be
// read: "unknown, treat as oldest". Such entries register as already
// expired to the rotation decider and are evicted first by the enforcer.
// It is not a real observation of the entry's age.
var epoch = time.Unix(0, 0).UTC()

// newEntry converts a directory child into an Entry, substituting the epoch
// sentinel when metadata is unreadable rather than failing the listing.
func newEntry(dir string, de os.DirEntry) Entry {
	entry := Entry{
		Path:      filepath.Join(dir, de.Name()),
		Timestamp: epoch,
	}
	if info, err := de.Info(); err == nil {
		entry.Timestamp = info.ModTime()
	}
	return entry
}

// ListEntries lists the direct children of a tier directory as Entries.
// Individual unreadable entries degrade to the epoch sentinel; only a
// failure to read the directory itself is reported.
func ListEntries(dir string) ([]Entry, error) {
	children, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "reading snapshot directory %s", dir)
	}

	entries := make([]Entry, 0, len(children))
	for _, child := range children {
		entries = append(entries, newEntry(dir, child))
	}
	return entries, nil
}
