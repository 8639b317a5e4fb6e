package snapshot

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/pirouette/internal/config"
	"github.com/thoreinstein/pirouette/internal/dryrun"
	"github.com/thoreinstein/pirouette/internal/retention"
)

// StampLayout names snapshots at minute resolution. At most one snapshot
// per tier per minute can exist without overwriting; this is an accepted
// constraint of the naming scheme.
const StampLayout = "2006-01-02T15:04"

// TarballSuffix is appended to archive-format snapshot names.
const TarballSuffix = ".tgz"

// Write materializes one snapshot of the configured source into the tier
// directory. The timestamp is computed once per call so all filtering and
// copying within one invocation is consistent. In dry-run mode nothing is
// written and the call reports success.
func Write(log *slog.Logger, cfg *config.Config, guard dryrun.Guard, target retention.Target) error {
	stamp := time.Now().Format(StampLayout)

	dest := filepath.Join(target.Path, stamp)
	if cfg.Options.OutputFormat == config.FormatTarball {
		dest += TarballSuffix
	}

	log.Info("creating snapshot",
		"tier", target.Period.String(), "format", cfg.Options.OutputFormat, "path", dest)

	files, err := walkSource(log, cfg.Source.Path)
	if err != nil {
		return err
	}
	files = filterFiles(log, files, cfg.Options.Include, cfg.Options.Exclude)
	log.Debug("source walk complete", "files", len(files))

	return guard.Do(fmt.Sprintf("write %s snapshot %s", cfg.Options.OutputFormat, dest), func() error {
		if cfg.Options.OutputFormat == config.FormatTarball {
			return writeTarball(files, dest)
		}
		return writeDirectory(files, dest)
	})
}

// writeDirectory copies every surviving entry under its source-relative
// path below dest, creating parent directories as needed. The snapshot
// directory itself must be creatable or the snapshot fails. Partial
// snapshots may remain on disk after a failure; there is no rollback.
func writeDirectory(files []sourceFile, dest string) error {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return errors.Wrapf(err, "creating snapshot directory %s", dest)
	}

	for _, f := range files {
		dst := filepath.Join(dest, filepath.FromSlash(f.RelPath))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return errors.Wrapf(err, "creating parent directory for %s", f.RelPath)
		}

		if f.Mode&os.ModeSymlink != 0 {
			if err := copySymlink(f.Path, dst); err != nil {
				return errors.Wrapf(err, "copying symlink %s", f.RelPath)
			}
			continue
		}
		if err := copyFile(f.Path, dst, f.Mode.Perm()); err != nil {
			return errors.Wrapf(err, "copying %s", f.RelPath)
		}
	}

	return nil
}

// copyFile copies src to dst, preserving the source permission bits.
func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "opening source file")
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return errors.Wrap(err, "creating destination file")
	}

	if _, err := out.ReadFrom(in); err != nil {
		out.Close()
		return errors.Wrap(err, "copying file contents")
	}

	return errors.Wrap(out.Close(), "closing destination file")
}

// copySymlink recreates a symlink with the same link target.
func copySymlink(src, dst string) error {
	linkTarget, err := os.Readlink(src)
	if err != nil {
		return errors.Wrap(err, "reading link target")
	}
	return errors.Wrap(os.Symlink(linkTarget, dst), "creating symlink")
}
