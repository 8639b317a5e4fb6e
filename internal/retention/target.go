package retention

import (
	"path/filepath"
	"sort"
)

// Target describes one configured retention tier: its period kind, the
// directory its snapshots live in, and how many snapshots it may hold.
// Targets are built once per run from configuration and are read-only
// afterward; the filesystem itself is the single source of truth.
type Target struct {
	Period   Period
	Path     string
	MaxCount int
}

// Targets builds the tier list from the configured retention map, rooting
// each tier directory under targetRoot by its period name. The result is
// ordered by ascending period threshold so runs process tiers in a stable
// order regardless of map iteration.
func Targets(targetRoot string, counts map[string]int) ([]Target, error) {
	targets := make([]Target, 0, len(counts))
	for name, count := range counts {
		period, err := ParsePeriod(name)
		if err != nil {
			return nil, err
		}
		targets = append(targets, Target{
			Period:   period,
			Path:     filepath.Join(targetRoot, period.String()),
			MaxCount: count,
		})
	}

	sort.Slice(targets, func(i, j int) bool {
		return targets[i].Period.Threshold() < targets[j].Period.Threshold()
	})

	return targets, nil
}
