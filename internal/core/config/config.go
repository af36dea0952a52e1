// Package config handles configuration loading and validation for quill.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/quill/internal/core/history"
	"github.com/colonyops/quill/internal/core/styles"
)

// Config holds the application configuration.
type Config struct {
	Search SearchConfig `yaml:"search"`
	Editor EditorConfig `yaml:"editor"`
	TUI    TUIConfig    `yaml:"tui"`
}

// SearchConfig holds the initial state of the Find and Replace dialog.
type SearchConfig struct {
	Regex       bool  `yaml:"regex"`        // initial Regular Expression toggle
	IgnoreCase  bool  `yaml:"ignore_case"`  // initial Ignore Case toggle
	WrapAround  *bool `yaml:"wrap_around"`  // initial Wrap Around toggle, default on
	HistorySize int   `yaml:"history_size"` // bound of each recency list
}

// Wrap reports the effective Wrap Around default.
func (s SearchConfig) Wrap() bool {
	return s.WrapAround == nil || *s.WrapAround
}

// EditorConfig holds document view settings.
type EditorConfig struct {
	ReadOnly bool  `yaml:"read_only"` // open documents without edit permission
	Watch    *bool `yaml:"watch"`     // reload when the file changes on disk, default on
	TabWidth int   `yaml:"tab_width"` // tab expansion in the document view
}

// WatchEnabled reports the effective watch setting.
func (e EditorConfig) WatchEnabled() bool {
	return e.Watch == nil || *e.Watch
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Search: SearchConfig{
			HistorySize: history.DefaultLimit,
		},
		Editor: EditorConfig{
			TabWidth: 4,
		},
		TUI: TUIConfig{
			Theme: styles.DefaultTheme,
		},
	}
}

// DefaultPath returns the config file location under the user config
// directory ($XDG_CONFIG_HOME/quill/config.yaml on Linux).
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "quill", "config.yaml")
}

// Load reads configuration from the given path.
// If configPath is empty or doesn't exist, returns defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	// Apply defaults for zero values
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Search.HistorySize == 0 {
		c.Search.HistorySize = defaults.Search.HistorySize
	}
	if c.Editor.TabWidth == 0 {
		c.Editor.TabWidth = defaults.Editor.TabWidth
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
}
