// Package config holds ccextract settings loaded from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// ErrNoOutput is returned when an extraction has no output directory.
var ErrNoOutput = errors.New("no output directory configured")

// Config is the tool configuration. Flags override the environment, which
// overrides the file.
type Config struct {
	// Output is the directory receiving the vCards.
	Output string `yaml:"output"`

	// Backup is the root holding one directory per device backup.
	Backup string `yaml:"backup"`

	// Device selects a backup by device name instead of the newest one.
	Device string `yaml:"device"`

	// Database points directly at an AddressBook database, bypassing
	// backup discovery.
	Database string `yaml:"database"`

	LogLevel string `yaml:"log_level"`
	Plain    bool   `yaml:"plain"`
}

var levels = map[string]zapcore.Level{
	"DEBUG":   zapcore.DebugLevel,
	"INFO":    zapcore.InfoLevel,
	"WARNING": zapcore.WarnLevel,
	"ERROR":   zapcore.ErrorLevel,
	"FATAL":   zapcore.FatalLevel,
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{LogLevel: "INFO"}
}

// DefaultPath returns the config file location under the user config dir.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ccextract", "config.yaml")
}

// Load reads a YAML config file and applies environment overrides. A
// missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CCEXTRACT_OUTPUT"); v != "" {
		c.Output = v
	}
	if v := os.Getenv("CCEXTRACT_BACKUP"); v != "" {
		c.Backup = v
	}
	if v := os.Getenv("CCEXTRACT_DEVICE"); v != "" {
		c.Device = v
	}
	if v := os.Getenv("CCEXTRACT_DB"); v != "" {
		c.Database = v
	}
	if v := os.Getenv("CCEXTRACT_LOGLEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Level returns the configured log level.
func (c *Config) Level() (zapcore.Level, error) {
	lvl, ok := levels[strings.ToUpper(c.LogLevel)]
	if !ok {
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q (want DEBUG, INFO, WARNING, ERROR or FATAL)", c.LogLevel)
	}
	return lvl, nil
}

// Validate checks settings shared by every command.
func (c *Config) Validate() error {
	_, err := c.Level()
	return err
}

// ValidateExtract additionally checks what an extraction needs.
func (c *Config) ValidateExtract() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Output == "" {
		return ErrNoOutput
	}
	return nil
}
