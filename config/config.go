// Package config provides configuration loading and management for the
// slot registry and its language service.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/c360studio/stubreg/stub"
)

// Config represents the complete runtime configuration
type Config struct {
	Registry    RegistryConfig    `yaml:"registry"`
	Language    LanguageConfig    `yaml:"language"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
}

// RegistryConfig configures the slot registry
type RegistryConfig struct {
	// LoopLimit caps simultaneously in-flight resolutions (default: 2)
	LoopLimit int `yaml:"loop_limit"`
	// Eager lists slot-name glob patterns resolved at startup (e.g. "lang.*")
	Eager []string `yaml:"eager"`
}

// LanguageConfig configures the content language
type LanguageConfig struct {
	// Code is the site content language code (default: "en")
	Code string `yaml:"code"`
	// MessagesDir is the message catalog directory (empty = no catalogs)
	MessagesDir string `yaml:"messages_dir"`
	// Watch enables catalog file watching with automatic reload
	Watch bool `yaml:"watch"`
	// WatchDebounce is how long to wait for more changes before reloading
	WatchDebounce string `yaml:"watch_debounce"`
}

// DiagnosticsConfig configures resolution diagnostics
type DiagnosticsConfig struct {
	// Trace enables the per-resolution debug trace
	Trace bool `yaml:"trace"`
	// Metrics enables Prometheus metrics
	Metrics bool `yaml:"metrics"`
	// NATSURL is the event stream server URL (empty = publishing disabled)
	NATSURL string `yaml:"nats_url"`
	// NATSSubject overrides the default event subject
	NATSSubject string `yaml:"nats_subject"`
}

// GetWatchDebounce returns the watch debounce as a duration.
func (c *LanguageConfig) GetWatchDebounce() time.Duration {
	if c.WatchDebounce == "" {
		return 500 * time.Millisecond
	}
	d, err := time.ParseDuration(c.WatchDebounce)
	if err != nil {
		return 500 * time.Millisecond
	}
	return d
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Registry: RegistryConfig{
			LoopLimit: stub.DefaultLoopLimit,
			Eager:     nil,
		},
		Language: LanguageConfig{
			Code:          "en",
			MessagesDir:   "",
			Watch:         false,
			WatchDebounce: "500ms",
		},
		Diagnostics: DiagnosticsConfig{
			Trace:   false,
			Metrics: false,
			NATSURL: "",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Registry.LoopLimit < 1 {
		return fmt.Errorf("registry.loop_limit must be at least 1")
	}
	for _, pattern := range c.Registry.Eager {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("registry.eager pattern %q is not a valid glob", pattern)
		}
	}
	if c.Language.Code == "" {
		return fmt.Errorf("language.code is required")
	}
	if c.Language.WatchDebounce != "" {
		if _, err := time.ParseDuration(c.Language.WatchDebounce); err != nil {
			return fmt.Errorf("language.watch_debounce is not a duration: %w", err)
		}
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Registry
	if other.Registry.LoopLimit != 0 {
		c.Registry.LoopLimit = other.Registry.LoopLimit
	}
	if len(other.Registry.Eager) > 0 {
		c.Registry.Eager = other.Registry.Eager
	}

	// Language
	if other.Language.Code != "" {
		c.Language.Code = other.Language.Code
	}
	if other.Language.MessagesDir != "" {
		c.Language.MessagesDir = other.Language.MessagesDir
	}
	if other.Language.Watch {
		c.Language.Watch = true
	}
	if other.Language.WatchDebounce != "" {
		c.Language.WatchDebounce = other.Language.WatchDebounce
	}

	// Diagnostics
	if other.Diagnostics.Trace {
		c.Diagnostics.Trace = true
	}
	if other.Diagnostics.Metrics {
		c.Diagnostics.Metrics = true
	}
	if other.Diagnostics.NATSURL != "" {
		c.Diagnostics.NATSURL = other.Diagnostics.NATSURL
	}
	if other.Diagnostics.NATSSubject != "" {
		c.Diagnostics.NATSSubject = other.Diagnostics.NATSSubject
	}
}
