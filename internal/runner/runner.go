// Package runner orchestrates one full rotation+cleanup pass over all
// configured retention tiers. Execution is single-threaded and fully
// synchronous: the workload is I/O-bound, invoked periodically by an
// external scheduler, and bounded by the handful of configured tiers.
package runner

import (
	"log/slog"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/pirouette/internal/config"
	"github.com/thoreinstein/pirouette/internal/dryrun"
	"github.com/thoreinstein/pirouette/internal/retention"
	"github.com/thoreinstein/pirouette/internal/snapshot"
)

// Run performs one rotation+cleanup pass: for every tier, decide whether a
// snapshot is due, write it if so, then enforce the tier's capacity.
// Enforcement always runs, even when the write failed. Tiers are isolated:
// one tier's failure never blocks the others; failures are combined into
// the returned error so the process still exits non-zero.
func Run(log *slog.Logger, cfg *config.Config) error {
	targets, err := retention.Targets(cfg.Target.Path, cfg.Retention)
	if err != nil {
		return err
	}

	guard := dryrun.New(cfg.Options.DryRun, log)

	var runErr error
	for _, target := range targets {
		tier := target.Period.String()

		due, err := retention.IsRotationDue(log, guard, target)
		if err != nil {
			// Tier directory could not be created; the tier's remaining
			// steps cannot do anything useful.
			log.Error("tier check failed", "tier", tier, "error", err)
			runErr = errors.CombineErrors(runErr, errors.Wrapf(err, "tier %s", tier))
			continue
		}

		if due {
			if err := snapshot.Write(log, cfg, guard, target); err != nil {
				log.Error("snapshot failed", "tier", tier, "error", err)
				runErr = errors.CombineErrors(runErr, errors.Wrapf(err, "creating snapshot for tier %s", tier))
			}
		}

		if err := retention.Enforce(log, guard, target); err != nil {
			log.Error("retention enforcement failed", "tier", tier, "error", err)
			runErr = errors.CombineErrors(runErr, errors.Wrapf(err, "enforcing retention for tier %s", tier))
		}
	}

	return runErr
}
