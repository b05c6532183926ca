// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mark3labs/beacon/internal/logger"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Storage backends for submitted beacons.
const (
	BackendNATS     = "nats"
	BackendPostgres = "postgres"
)

// DefaultSubmitTimeout is used when submit_timeout is unset.
const DefaultSubmitTimeout = "30s"

// Config holds all configuration values for beacon.
type Config struct {
	Author        string `mapstructure:"author" yaml:"author"`
	Backend       string `mapstructure:"backend" yaml:"backend"`
	DataDir       string `mapstructure:"data_dir" yaml:"data_dir"`
	DatabaseURL   string `mapstructure:"database_url" yaml:"database_url,omitempty"`
	SubmitTimeout string `mapstructure:"submit_timeout" yaml:"submit_timeout"`
	LogLevel      string `mapstructure:"log_level" yaml:"log_level"`
	LogFile       string `mapstructure:"log_file" yaml:"log_file"`
}

// envKeys maps config keys to their environment variables.
var envKeys = []string{"author", "backend", "data_dir", "database_url", "submit_timeout", "log_level", "log_file"}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("beacon")

	v.SetDefault("author", defaultAuthor())
	v.SetDefault("backend", BackendNATS)
	v.SetDefault("data_dir", ".beacon")
	v.SetDefault("database_url", "")
	v.SetDefault("submit_timeout", DefaultSubmitTimeout)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")

	v.SetEnvPrefix("BEACON")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, key := range envKeys {
		env := "BEACON_" + strings.ToUpper(key)
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	// Load global config first (if exists)
	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	// Merge project config on top (if exists)
	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendNATS:
		if c.DataDir == "" {
			return fmt.Errorf("data_dir is required for the %s backend", BackendNATS)
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("database_url is required for the %s backend", BackendPostgres)
		}
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendNATS, BackendPostgres)
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	if c.LogLevel != "" {
		if _, err := logger.ParseLevel(c.LogLevel); err != nil {
			return err
		}
	}
	return nil
}

// Timeout parses submit_timeout. An empty value yields the default.
func (c *Config) Timeout() (time.Duration, error) {
	raw := c.SubmitTimeout
	if raw == "" {
		raw = DefaultSubmitTimeout
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid submit_timeout %q: %w", c.SubmitTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("submit_timeout must be positive, got %s", d)
	}
	return d, nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/beacon/beacon.yml or $XDG_CONFIG_HOME/beacon/beacon.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "beacon", "beacon.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "beacon", "beacon.yml")
}

// ProjectPath returns the project-local config path.
// Returns ./beacon.yml in the current working directory.
func ProjectPath() string {
	return "beacon.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// defaultAuthor falls back to the login name.
func defaultAuthor() string {
	for _, env := range []string{"USER", "USERNAME", "LOGNAME"} {
		if u := os.Getenv(env); u != "" {
			return u
		}
	}
	return "anonymous"
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
