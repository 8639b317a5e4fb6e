package runner

import (
	"log/slog"
	"time"

	"github.com/thoreinstein/pirouette/internal/config"
	"github.com/thoreinstein/pirouette/internal/dryrun"
	"github.com/thoreinstein/pirouette/internal/logging"
	"github.com/thoreinstein/pirouette/internal/retention"
)

// TierStatus summarizes the current on-disk state of one retention tier.
type TierStatus struct {
	Tier      string     `json:"tier" yaml:"tier"`
	Path      string     `json:"path" yaml:"path"`
	Snapshots int        `json:"snapshots" yaml:"snapshots"`
	MaxCount  int        `json:"max_count" yaml:"max_count"`
	Newest    *time.Time `json:"newest,omitempty" yaml:"newest,omitempty"`
	Due       bool       `json:"due" yaml:"due"`
}

// Status inspects every configured tier without mutating anything: the
// rotation check runs under a permanently-dry guard so even missing tier
// directories are not created.
func Status(log *slog.Logger, cfg *config.Config) ([]TierStatus, error) {
	targets, err := retention.Targets(cfg.Target.Path, cfg.Retention)
	if err != nil {
		return nil, err
	}

	// Intent logging from the dry guard would be noise in a report.
	guard := dryrun.New(true, logging.NewDiscard())

	statuses := make([]TierStatus, 0, len(targets))
	for _, target := range targets {
		status := TierStatus{
			Tier:     target.Period.String(),
			Path:     target.Path,
			MaxCount: target.MaxCount,
		}

		if entries, err := retention.ListEntries(target.Path); err == nil {
			status.Snapshots = len(entries)
			if newest := newestTimestamp(entries); !newest.IsZero() {
				status.Newest = &newest
			}
		} else {
			log.Debug("tier directory not listable", "tier", status.Tier, "error", err)
		}

		due, err := retention.IsRotationDue(log, guard, target)
		if err != nil {
			return nil, err
		}
		status.Due = due

		statuses = append(statuses, status)
	}

	return statuses, nil
}

func newestTimestamp(entries []retention.Entry) time.Time {
	var newest time.Time
	for _, entry := range entries {
		if entry.Timestamp.After(newest) {
			newest = entry.Timestamp
		}
	}
	return newest
}
