// Package config loads lapse's YAML configuration file.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	lerrors "github.com/hpungsan/lapse/internal/errors"
)

// ConfigFile is the name of the configuration file under the base dir.
const ConfigFile = "config.yaml"

// Config holds application configuration.
type Config struct {
	Options Options `yaml:"options"`

	// DefaultTags maps a project name to tags appended automatically on
	// start and add.
	DefaultTags map[string][]string `yaml:"default_tags,omitempty"`

	Backend Backend `yaml:"backend,omitempty"`
}

// Options holds general behavior switches.
type Options struct {
	// DayStartHour shifts the day boundary used by spans, so work past
	// midnight counts toward the previous day. 0 means midnight.
	DayStartHour int `yaml:"day_start_hour"`

	// ReportCurrent includes the running session in reports by default.
	ReportCurrent bool `yaml:"report_current"`

	// StopOnStart stops any running session instead of failing when a new
	// one is started.
	StopOnStart bool `yaml:"stop_on_start"`

	// WeekStart names the first weekday of reporting weeks.
	WeekStart string `yaml:"week_start"`
}

// Backend holds the remote synchronization endpoint.
type Backend struct {
	URL   string `yaml:"url,omitempty"`
	Token string `yaml:"token,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Options: Options{
			WeekStart: "monday",
		},
	}
}

// Load loads configuration from baseDir/config.yaml. Returns the default
// config if the file doesn't exist or is empty. The baseDir parameter
// allows tests to use t.TempDir() instead of the user's data dir.
func Load(baseDir string) (*Config, error) {
	path := filepath.Join(baseDir, ConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, lerrors.NewInternal(err)
	}
	if len(data) == 0 {
		return DefaultConfig(), nil
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, lerrors.NewMalformedData(path, err)
	}
	return cfg, nil
}

// Save writes the configuration to baseDir/config.yaml.
func Save(baseDir string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return lerrors.NewInternal(err)
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return lerrors.NewInternal(err)
	}
	if err := os.WriteFile(filepath.Join(baseDir, ConfigFile), data, 0600); err != nil {
		return lerrors.NewInternal(err)
	}
	return nil
}

// ProjectDefaultTags returns the configured default tags for a project, or
// nil when none are set.
func (c *Config) ProjectDefaultTags(project string) []string {
	if c.DefaultTags == nil {
		return nil
	}
	return c.DefaultTags[project]
}

// HasBackend reports whether both the remote URL and token are configured.
func (c *Config) HasBackend() bool {
	return c.Backend.URL != "" && c.Backend.Token != ""
}
