// Package config loads the wsbar YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration. Zero values fall back to defaults.
type Config struct {
	Outputs              []string `yaml:"outputs"`
	IconDirs             []string `yaml:"icon_dirs,omitempty"`
	IconSize             int      `yaml:"icon_size,omitempty"`
	IconCacheSize        int      `yaml:"icon_cache_size,omitempty"`
	TickMs               int      `yaml:"tick_ms,omitempty"`
	UnknownTitle         string   `yaml:"unknown_title,omitempty"`
	WorkspacePlaceholder string   `yaml:"workspace_placeholder,omitempty"`
	LogLevel             string   `yaml:"log_level,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Outputs:       []string{"default"},
		IconDirs:      DefaultIconDirs(),
		IconSize:      16,
		IconCacheSize: 128,
		TickMs:        100,
		LogLevel:      "info",
	}
}

// DefaultIconDirs lists the hicolor theme directories searched by default.
func DefaultIconDirs() []string {
	dirs := []string{
		"/usr/share/icons/hicolor/48x48/apps",
		"/usr/share/pixmaps",
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append([]string{filepath.Join(home, ".local", "share", "icons", "hicolor", "48x48", "apps")}, dirs...)
	}
	return dirs
}

// DefaultPath returns ~/.config/wsbar/config.yaml, honouring XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "wsbar", "config.yaml"), nil
}

// Tick returns the reconcile interval.
func (c *Config) Tick() time.Duration {
	return time.Duration(c.TickMs) * time.Millisecond
}

// Validate reports configuration errors.
func (c *Config) Validate() error {
	if len(c.Outputs) == 0 {
		return fmt.Errorf("at least one output is required")
	}
	seen := make(map[string]bool, len(c.Outputs))
	for _, o := range c.Outputs {
		if o == "" {
			return fmt.Errorf("output names must not be empty")
		}
		if seen[o] {
			return fmt.Errorf("duplicate output %q", o)
		}
		seen[o] = true
	}
	if c.TickMs <= 0 {
		return fmt.Errorf("tick_ms must be positive, got %d", c.TickMs)
	}
	return nil
}

// applyDefaults fills zero fields from Default.
func (c *Config) applyDefaults() {
	d := Default()
	if len(c.Outputs) == 0 {
		c.Outputs = d.Outputs
	}
	if c.IconDirs == nil {
		c.IconDirs = d.IconDirs
	}
	if c.IconSize == 0 {
		c.IconSize = d.IconSize
	}
	if c.IconCacheSize == 0 {
		c.IconCacheSize = d.IconCacheSize
	}
	if c.TickMs == 0 {
		c.TickMs = d.TickMs
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
}

// LoadYAML loads a YAML file into the provided struct.
func LoadYAML(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse YAML from %s: %w", path, err)
	}
	return nil
}

// SaveYAML saves a struct to a YAML file, creating parent directories.
func SaveYAML(path string, v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Load reads the config at path, or returns defaults if it doesn't exist.
// An empty path means DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if !FileExists(path) {
		return Default(), nil
	}

	var c Config
	if err := LoadYAML(path, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &c, nil
}
