// Package config loads gsbatch configuration: an optional YAML file with
// defaults for everything, then environment overrides on top. Credentials
// are never part of the file; the password comes from the environment or
// an interactive prompt at the CLI layer.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all gsbatch configuration.
type Config struct {
	// Target application and course
	Course CourseConfig `yaml:"course"`

	// Browser session
	Browser BrowserConfig `yaml:"browser"`

	// Wait and pacing knobs
	Waits WaitsConfig `yaml:"waits"`

	// Run history journal
	History HistoryConfig `yaml:"history"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Input file
	Input InputConfig `yaml:"input"`
}

// CourseConfig locates the target application and course.
type CourseConfig struct {
	BaseURL   string `yaml:"base_url"`
	CourseURL string `yaml:"course_url"`
	Email     string `yaml:"email"`
}

// BrowserConfig configures the Chrome session.
type BrowserConfig struct {
	Headless            bool     `yaml:"headless"`
	Bin                 string   `yaml:"bin"`
	DebuggerURL         string   `yaml:"debugger_url"`
	ExtraFlags          []string `yaml:"extra_flags"`
	ViewportWidth       int      `yaml:"viewport_width"`
	ViewportHeight      int      `yaml:"viewport_height"`
	NavigationTimeoutMs int      `yaml:"navigation_timeout_ms"`
}

// WaitsConfig tunes element waits and pacing.
type WaitsConfig struct {
	// FindTimeoutSec bounds how long an element lookup polls.
	FindTimeoutSec int `yaml:"find_timeout_sec"`
	// SettleMs pauses after revealing or focusing an element.
	SettleMs int `yaml:"settle_ms"`
	// CommitMs pauses after a clipboard paste commits.
	CommitMs int `yaml:"commit_ms"`
	// PaceSec spaces consecutive assignments in a batch.
	PaceSec int `yaml:"pace_sec"`
}

// HistoryConfig configures the run journal.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// InputConfig locates the assignment JSON file.
type InputConfig struct {
	Path string `yaml:"path"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Course: CourseConfig{
			BaseURL: "https://www.gradescope.com",
		},
		Browser: BrowserConfig{
			Headless:            false,
			ViewportWidth:       1920,
			ViewportHeight:      1080,
			NavigationTimeoutMs: 30000,
		},
		Waits: WaitsConfig{
			FindTimeoutSec: 20,
			SettleMs:       200,
			CommitMs:       300,
			PaceSec:        2,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    ".gsbatch/history.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from a YAML file. A missing file returns the
// defaults; environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides. The password
// is deliberately not handled here; it never lands in a Config.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GS_EMAIL"); v != "" {
		c.Course.Email = v
	}
	if v := os.Getenv("GS_COURSE_URL"); v != "" {
		c.Course.CourseURL = v
	}
	if v := os.Getenv("GS_JSON"); v != "" {
		c.Input.Path = v
	}
}

// Validate checks that everything a run needs is present. It runs after
// interactive prompts have filled the gaps.
func (c *Config) Validate() error {
	if c.Course.BaseURL == "" {
		return fmt.Errorf("course base_url not configured")
	}
	if c.Course.CourseURL == "" {
		return fmt.Errorf("course_url not configured (set GS_COURSE_URL or course.course_url)")
	}
	if c.Course.Email == "" {
		return fmt.Errorf("email not configured (set GS_EMAIL or course.email)")
	}
	if c.Input.Path == "" {
		return fmt.Errorf("input file not configured (set GS_JSON or input.path)")
	}
	return nil
}

// FindTimeout bounds element lookups, with a sane default when unset.
func (c *Config) FindTimeout() time.Duration {
	if c.Waits.FindTimeoutSec <= 0 {
		return 20 * time.Second
	}
	return time.Duration(c.Waits.FindTimeoutSec) * time.Second
}

// Settle is the post-focus pause.
func (c *Config) Settle() time.Duration {
	if c.Waits.SettleMs <= 0 {
		return 200 * time.Millisecond
	}
	return time.Duration(c.Waits.SettleMs) * time.Millisecond
}

// Commit is the post-paste pause.
func (c *Config) Commit() time.Duration {
	if c.Waits.CommitMs <= 0 {
		return 300 * time.Millisecond
	}
	return time.Duration(c.Waits.CommitMs) * time.Millisecond
}

// Pace spaces consecutive batch attempts.
func (c *Config) Pace() time.Duration {
	if c.Waits.PaceSec <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.Waits.PaceSec) * time.Second
}
