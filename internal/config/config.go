// Package config defines service configuration and its loading.
package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // zone lookups must not depend on the host
)

// Log output formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Timezone is the IANA zone schedule times are written in.
	Timezone string `koanf:"timezone"`

	// DataDir holds the source files; the file names below are relative to it.
	DataDir           string `koanf:"data_dir"`
	ScheduleFile      string `koanf:"schedule_file"`
	WineListFile      string `koanf:"wine_list_file"`
	PreferencesFile   string `koanf:"preferences_file"`
	MasterClassesFile string `koanf:"master_classes_file"`

	// SnapshotTTLSeconds is how long loaded data is served before a reload.
	// Zero keeps the first snapshot until a background refresh replaces it.
	SnapshotTTLSeconds int `koanf:"snapshot_ttl_seconds"`

	// RefreshIntervalSeconds enables background reloads; zero disables them.
	RefreshIntervalSeconds int `koanf:"refresh_interval_seconds"`

	// ServeStaleOnError keeps serving the previous snapshot when a reload fails.
	ServeStaleOnError bool `koanf:"serve_stale_on_error"`

	// ClassDurationMinutes is the default length of a master class session.
	ClassDurationMinutes int `koanf:"class_duration_minutes"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		LogFormat:              LogFormatText,
		Addr:                   ":9080",
		Timezone:               "Europe/Helsinki",
		DataDir:                "data",
		ScheduleFile:           "schedule.json",
		WineListFile:           "wine_list.json",
		PreferencesFile:        "preferences.txt",
		MasterClassesFile:      "master_classes.json",
		SnapshotTTLSeconds:     3600,
		RefreshIntervalSeconds: 0,
		ServeStaleOnError:      true,
		ClassDurationMinutes:   50,
	}
}

// Validate reports the first invalid setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.LogFormat != LogFormatText && c.LogFormat != LogFormatJSON:
		return fmt.Errorf("%w: log_format must be %q or %q, got %q", ErrInvalidConfig, LogFormatText, LogFormatJSON, c.LogFormat)
	case c.SnapshotTTLSeconds < 0:
		return fmt.Errorf("%w: snapshot_ttl_seconds must not be negative", ErrInvalidConfig)
	case c.RefreshIntervalSeconds < 0:
		return fmt.Errorf("%w: refresh_interval_seconds must not be negative", ErrInvalidConfig)
	case c.ClassDurationMinutes <= 0:
		return fmt.Errorf("%w: class_duration_minutes must be positive", ErrInvalidConfig)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("%w: timezone %q: %w", ErrInvalidConfig, c.Timezone, err)
	}
	return nil
}

// Location loads the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// SnapshotTTL is how long loaded data is served before a reload.
func (c *Config) SnapshotTTL() time.Duration {
	return time.Duration(c.SnapshotTTLSeconds) * time.Second
}

// RefreshInterval is the background reload period; zero disables it.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSeconds) * time.Second
}

// ClassDuration is the default master class session length.
func (c *Config) ClassDuration() time.Duration {
	return time.Duration(c.ClassDurationMinutes) * time.Minute
}
