// Package snapshot materializes snapshots of the configured source path,
// either as plain directory copies or as gzip-compressed tar archives,
// applying include/exclude glob filtering against source-relative paths.
package snapshot

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// sourceFile is one leaf of the source walk: a regular file or a symlink.
// RelPath is the slash-separated path relative to the source root; it is
// used both for glob matching and for naming the copy inside the snapshot.
type sourceFile struct {
	Path    string
	RelPath string
	Mode    fs.FileMode
}

// walkSource enumerates the source contents. Directories are structural
// only and never appear as leaf entries. Read errors during the walk,
// including on the source root's own listing, are logged and the affected
// subtree skipped, so an unreadable root yields zero entries and an empty
// snapshot rather than an error. Only a source that cannot be stat'ed at
// all fails. A single-file source yields one entry named by its base name.
func walkSource(log *slog.Logger, source string) ([]sourceFile, error) {
	info, err := os.Lstat(source)
	if err != nil {
		return nil, errors.Wrapf(err, "stat source %s", source)
	}

	if !info.IsDir() {
		return []sourceFile{{
			Path:    source,
			RelPath: filepath.Base(source),
			Mode:    info.Mode(),
		}}, nil
	}

	var files []sourceFile
	walkErr := filepath.WalkDir(source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn("error reading some source contents, skipping", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		mode := d.Type()
		if !mode.IsRegular() && mode&fs.ModeSymlink == 0 {
			return nil
		}

		rel, err := filepath.Rel(source, path)
		if err != nil {
			log.Warn("cannot relativize source entry, skipping", "path", path, "error", err)
			return nil
		}

		full := mode
		if fi, err := d.Info(); err == nil {
			full = fi.Mode()
		}

		files = append(files, sourceFile{
			Path:    path,
			RelPath: filepath.ToSlash(rel),
			Mode:    full,
		})
		return nil
	})
	if walkErr != nil {
		return nil, errors.Wrapf(walkErr, "walking source %s", source)
	}

	return files, nil
}
