// Package config provides configuration management for pirouette using Viper.
//
// Configuration lives in a TOML file, resolved in this order:
//
//  1. An explicit path (--config flag)
//  2. The PIROUETTE_CONFIG_FILE environment variable (empty value == unset)
//  3. pirouette.toml in the current directory
//  4. pirouette.toml in $XDG_CONFIG_HOME/pirouette
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/thoreinstein/pirouette/internal/errors"
)

// AppName is the application name used for config file naming.
const AppName = "pirouette"

// EnvConfigFile names the environment variable that overrides the config
// file location.
const EnvConfigFile = "PIROUETTE_CONFIG_FILE"

// Output formats for snapshot materialization.
const (
	// FormatDirectory materializes each snapshot as a plain directory copy.
	FormatDirectory = "directory"
	// FormatTarball materializes each snapshot as a gzip-compressed tar archive.
	FormatTarball = "tarball"
)

// Config represents the top-level configuration structure.
type Config struct {
	Source    PathConfig     `mapstructure:"source" toml:"source"`
	Target    PathConfig     `mapstructure:"target" toml:"target"`
	Retention map[string]int `mapstructure:"retention" toml:"retention"`
	Options   Options        `mapstructure:"options" toml:"options"`
}

// PathConfig wraps a single filesystem path.
type PathConfig struct {
	Path string `mapstructure:"path" toml:"path"`
}

// Options holds the cross-cutting run options.
type Options struct {
	// OutputFormat selects directory or tarball snapshots. Defaults to directory.
	OutputFormat string `mapstructure:"output_format" toml:"output_format"`

	// DryRun logs intended mutations without performing them.
	DryRun bool `mapstructure:"dry_run" toml:"dry_run"`

	// Include lists glob patterns matched against source-relative paths.
	// An empty list includes everything.
	Include []string `mapstructure:"include" toml:"include"`

	// Exclude lists glob patterns matched against source-relative paths.
	// Exclude wins over Include when patterns overlap.
	Exclude []string `mapstructure:"exclude" toml:"exclude"`

	// LogLevel is parsed leniently; unknown values fall back to warn.
	LogLevel string `mapstructure:"log_level" toml:"log_level"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	// Config file settings
	viper.SetConfigName(AppName)
	viper.SetConfigType("toml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".") // Current directory
	viper.AddConfigPath(filepath.Join(xdg.ConfigHome, AppName))

	// Environment variable support
	viper.SetEnvPrefix("PIROUETTE")
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("options.output_format", FormatDirectory)
	viper.SetDefault("options.log_level", "warn")
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file. Otherwise the
// PIROUETTE_CONFIG_FILE environment variable is consulted (an empty value
// counts as unset), and finally the default search locations.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && path == "" {
			// Implicit load with no file found anywhere: report it as a
			// config error since pirouette cannot do anything without
			// source/target/retention settings.
			return nil, errors.Wrap(err, "no configuration file found")
		}
		return nil, errors.Wrapf(err, "reading config file %s", viper.ConfigFileUsed())
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	return &cfg, nil
}

// Default returns a starter configuration used by `pirouette init`.
func Default() *Config {
	return &Config{
		Source: PathConfig{Path: "/data"},
		Target: PathConfig{Path: "/snapshots"},
		Retention: map[string]int{
			"hours": 24,
			"days":  7,
		},
		Options: Options{
			OutputFormat: FormatDirectory,
			LogLevel:     "warn",
		},
	}
}
