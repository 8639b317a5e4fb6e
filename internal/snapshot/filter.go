package snapshot

import (
	"log/slog"

	"github.com/bmatcuk/doublestar/v4"
)

// filterFiles keeps an entry iff it matches at least one include pattern
// (vacuously true when the include list is empty) AND matches none of the
// exclude patterns (vacuously true when the exclude list is empty).
// Exclude wins when patterns overlap. Patterns are matched against the
// entry's slash-separated source-relative path.
func filterFiles(log *slog.Logger, files []sourceFile, include, exclude []string) []sourceFile {
	if len(include) == 0 && len(exclude) == 0 {
		return files
	}

	kept := make([]sourceFile, 0, len(files))
	for _, f := range files {
		if len(include) > 0 && !matchAny(include, f.RelPath) {
			log.Debug("entry matched no include pattern, skipping", "path", f.RelPath)
			continue
		}
		if matchAny(exclude, f.RelPath) {
			log.Debug("entry matched an exclude pattern, skipping", "path", f.RelPath)
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

// matchAny reports whether rel matches at least one of the patterns.
// Patterns were validated at config load time; a pattern that still fails
// to compile here simply does not match.
func matchAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}
