package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level YAML configuration for blight.
//
// The config file is optional: every field has a working default, and flags
// override individual fields for one-off invocations. Keep defaults and
// validation centralized so the rest of the code can assume a well-formed
// config.
type Config struct {
	// Device preselects a backlight device ("name" or "subsystem/name").
	// Empty means the default-device heuristic runs.
	Device string `yaml:"device,omitempty"`

	// Sysfs locates the sysfs mount.
	Sysfs SysfsConfig `yaml:"sysfs"`

	// Writer selects how the privileged write is performed.
	Writer WriterConfig `yaml:"writer"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

type SysfsConfig struct {
	Root string `yaml:"root"`
}

type WriterConfig struct {
	// Mode is "auto" (sysfs when writable, logind otherwise),
	// "logind", or "sysfs".
	Mode string `yaml:"mode"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a fully-populated Config with defaults.
func DefaultConfig() Config {
	return Config{
		Device: "",
		Sysfs: SysfsConfig{
			Root: "/sys",
		},
		Writer: WriterConfig{
			Mode: "auto",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultConfigPath is where LoadConfigFile looks when no -config flag is
// given. A missing file at this path is not an error.
func DefaultConfigPath() string {
	return ExpandPath("~/.config/blight/config.yaml")
}

// LoadConfigFile reads and parses a YAML config file.
//
// Notes:
//   - Unknown fields are rejected (helps catch typos) via KnownFields(true).
//   - Trailing garbage after the document is rejected.
func LoadConfigFile(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config path is empty")
	}
	b, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config yaml: %w", err)
	}

	// Ensure there's no trailing garbage (only whitespace/comments are allowed after the document).
	if err := dec.Decode(&struct{}{}); err == nil {
		return Config{}, fmt.Errorf("decode config yaml: unexpected trailing document")
	}

	return cfg, nil
}

// FlagOverrides applies flag values on top of a loaded config. Nil pointers
// are ignored; a non-nil pointer is applied even when it holds a zero value.
type FlagOverrides struct {
	Device     *string
	WriterMode *string
	LogLevel   *string
}

// Apply merges the overrides into cfg.
func (o FlagOverrides) Apply(cfg *Config) {
	if cfg == nil {
		return
	}
	if o.Device != nil {
		cfg.Device = *o.Device
	}
	if o.WriterMode != nil {
		cfg.Writer.Mode = *o.WriterMode
	}
	if o.LogLevel != nil {
		cfg.Logging.Level = *o.LogLevel
	}
}

// Validate checks config invariants and returns a user-friendly error.
// This is intended to be called after defaults + file + overrides are applied.
func (c *Config) Validate() error {
	if c.Sysfs.Root == "" {
		return errors.New("sysfs.root must not be empty")
	}

	switch c.Writer.Mode {
	case "", "auto", "logind", "sysfs":
	default:
		return fmt.Errorf("writer.mode must be auto, logind, or sysfs (got %q)", c.Writer.Mode)
	}

	if c.Logging.Level == "" {
		return errors.New("logging.level must not be empty")
	}
	if _, err := parseLogLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}

	return nil
}

// ExpandPath expands a leading "~" in a path using $HOME.
func ExpandPath(p string) string {
	if p == "" {
		return p
	}
	if p[0] != '~' {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	if len(p) >= 2 && (p[1] == '/' || p[1] == '\\') {
		return filepath.Join(home, p[2:])
	}
	return p
}
