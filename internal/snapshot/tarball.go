package snapshot

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// writeTarball streams every surviving entry into a gzip-compressed tar
// archive. Entries are rooted at their source-relative paths (no absolute
// paths, no leading slash). The archive is written to a temporary name and
// renamed into place only after a clean close, so a crash mid-walk never
// publishes a file that claims to be a complete snapshot.
func writeTarball(files []sourceFile, dest string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".pirouette-*"+TarballSuffix+".tmp")
	if err != nil {
		return errors.Wrapf(err, "creating temporary archive for %s", dest)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	gzw, err := gzip.NewWriterLevel(tmp, gzip.BestCompression)
	if err != nil {
		return errors.Wrap(err, "initializing gzip writer")
	}
	tw := tar.NewWriter(gzw)

	for _, f := range files {
		if err = appendFile(tw, f); err != nil {
			return err
		}
	}

	// Finalize in order: tar trailer, gzip trailer, file. Only then is the
	// archive complete and safe to publish under its final name.
	if err = tw.Close(); err != nil {
		return errors.Wrapf(err, "finalizing archive %s", dest)
	}
	if err = gzw.Close(); err != nil {
		return errors.Wrapf(err, "finalizing compression for %s", dest)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrapf(err, "closing archive %s", dest)
	}

	if err = os.Rename(tmpName, dest); err != nil {
		return errors.Wrapf(err, "publishing archive %s", dest)
	}
	return nil
}

// appendFile writes one source entry into the archive under its
// source-relative path. Symlinks are stored as link entries.
func appendFile(tw *tar.Writer, f sourceFile) error {
	info, err := os.Lstat(f.Path)
	if err != nil {
		return errors.Wrapf(err, "stat %s", f.Path)
	}

	var linkTarget string
	if f.Mode&os.ModeSymlink != 0 {
		if linkTarget, err = os.Readlink(f.Path); err != nil {
			return errors.Wrapf(err, "reading link target of %s", f.Path)
		}
	}

	hdr, err := tar.FileInfoHeader(info, linkTarget)
	if err != nil {
		return errors.Wrapf(err, "building archive header for %s", f.RelPath)
	}
	hdr.Name = f.RelPath

	if err := tw.WriteHeader(hdr); err != nil {
		return errors.Wrapf(err, "writing archive header for %s", f.RelPath)
	}

	if f.Mode&os.ModeSymlink != 0 {
		return nil
	}

	in, err := os.Open(f.Path)
	if err != nil {
		return errors.Wrapf(err, "opening %s", f.Path)
	}
	defer in.Close()

	if _, err := io.Copy(tw, in); err != nil {
		return errors.Wrapf(err, "archiving %s", f.RelPath)
	}
	return nil
}
