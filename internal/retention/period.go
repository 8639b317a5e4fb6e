// Package retention implements the rotation decision engine and eviction
// policy for time-bucketed snapshot tiers.
//
// Each configured tier owns one subdirectory of the target root, named after
// its period ("hours", "days", ...). A tier is due for rotation when its
// newest snapshot is at least one period old, and is trimmed back to its
// configured capacity by evicting the oldest snapshots first.
package retention

import (
	"sort"
	"time"

	"github.com/cockroachdb/errors"
)

// Period is one retention tier kind. Its string form doubles as the tier's
// on-disk directory name, so the name↔variant mapping must stay a stable
// bijection.
type Period int

// The five supported retention periods. A month is a fixed 30×24h and a
// year a fixed 365×24h; calendar-aware aging is a deliberate non-goal.
const (
	Hours Period = iota
	Days
	Weeks
	Months
	Years
)

// periodTable is the single source of truth for the name and age threshold
// of each period. Both String and ParsePeriod derive from it.
var periodTable = map[Period]struct {
	name      string
	threshold time.Duration
}{
	Hours:  {"hours", time.Hour},
	Days:   {"days", 24 * time.Hour},
	Weeks:  {"weeks", 7 * 24 * time.Hour},
	Months: {"months", 30 * 24 * time.Hour},
	Years:  {"years", 365 * 24 * time.Hour},
}

// ErrUnknownPeriod indicates a retention tier name that is not one of
// hours, days, weeks, months, years.
var ErrUnknownPeriod = errors.New("unknown retention period")

// String returns the lowercase plural name, which is also the tier's
// directory name under the target root.
func (p Period) String() string {
	if entry, ok := periodTable[p]; ok {
		return entry.name
	}
	return "unknown"
}

// Threshold returns the age at which the newest snapshot in a tier is
// considered expired and a new snapshot becomes due.
func (p Period) Threshold() time.Duration {
	return periodTable[p].threshold
}

// ParsePeriod is the inverse of String. Unknown names are rejected so that
// a typoed tier in the configuration fails at load time instead of being
// silently ignored.
func ParsePeriod(name string) (Period, error) {
	for p, entry := range periodTable {
		if entry.name == name {
			return p, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownPeriod, "%q", name)
}

// Periods returns all supported periods ordered by ascending threshold.
func Periods() []Period {
	ps := make([]Period, 0, len(periodTable))
	for p := range periodTable {
		ps = append(ps, p)
	}
	sort.Slice(ps, func(i, j int) bool {
		return ps[i].Threshold() < ps[j].Threshold()
	})
	return ps
}
