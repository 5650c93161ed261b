package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (TTWEAVE_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: TTWEAVE_TITLE -> title, etc.
	if err := k.Load(env.Provider("TTWEAVE_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "TTWEAVE_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("input is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}

	switch c.Sidebar.Initial {
	case SidebarHidden, SidebarVisible:
	default:
		return fmt.Errorf("invalid sidebar.initial %q: must be %q or %q",
			c.Sidebar.Initial, SidebarHidden, SidebarVisible)
	}
	if c.Sidebar.Width <= 0 {
		return fmt.Errorf("sidebar.width must be positive")
	}
	if c.Sidebar.CollapsePx < 0 {
		return fmt.Errorf("sidebar.collapse_px must be non-negative")
	}

	if len(c.ContentsKey) != 1 {
		return fmt.Errorf("contents_key must be a single character, got %q", c.ContentsKey)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}

	return nil
}
