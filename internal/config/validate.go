package config

import (
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/thoreinstein/pirouette/internal/errors"
	"github.com/thoreinstein/pirouette/internal/retention"
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors. Validation never
// mutates the filesystem; missing tier directories are created later by the
// rotation pass, under the dry-run guard.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	// A valid source is any existing file or directory.
	if cfg.Source.Path == "" {
		errs = append(errs, errors.Wrap(errors.ErrSourceNotFound, "source.path is empty"))
	} else if _, err := os.Stat(cfg.Source.Path); err != nil {
		errs = append(errs, errors.Wrapf(errors.ErrSourceNotFound, "source.path %s", cfg.Source.Path))
	}

	// A valid target is a directory. It may be absent; the rotation pass
	// creates it together with the tier subdirectories.
	if cfg.Target.Path == "" {
		errs = append(errs, errors.New("target.path is empty"))
	} else if info, err := os.Stat(cfg.Target.Path); err == nil && !info.IsDir() {
		errs = append(errs, errors.Wrapf(errors.ErrTargetNotDirectory, "target.path %s", cfg.Target.Path))
	}

	// A valid retention map has at least one known tier with a
	// non-negative count.
	if len(cfg.Retention) == 0 {
		errs = append(errs, errors.ErrNoRetention)
	}
	for name, count := range cfg.Retention {
		if _, err := retention.ParsePeriod(name); err != nil {
			errs = append(errs, errors.Wrap(err, "retention"))
		}
		if count < 0 {
			errs = append(errs, errors.Newf("retention.%s: count must be non-negative, got %d", name, count))
		}
	}

	switch cfg.Options.OutputFormat {
	case FormatDirectory, FormatTarball:
	default:
		errs = append(errs, errors.Newf("options.output_format: must be %q or %q, got %q",
			FormatDirectory, FormatTarball, cfg.Options.OutputFormat))
	}

	errs = append(errs, validatePatterns("options.include", cfg.Options.Include)...)
	errs = append(errs, validatePatterns("options.exclude", cfg.Options.Exclude)...)

	return errs
}

// validatePatterns rejects malformed glob patterns at load time so a bad
// pattern surfaces before any snapshot work starts.
func validatePatterns(field string, patterns []string) []error {
	var errs []error
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, errors.Newf("%s: invalid glob pattern %q", field, p))
		}
	}
	return errs
}

// JoinErrors renders a validation error list as a single error, one finding
// per line, for CLI display.
func JoinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return errors.Wrap(errors.ErrInvalidConfig, strings.Join(msgs, "; "))
}
