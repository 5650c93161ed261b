package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Input != "build/document.specials" {
		t.Errorf("input = %q", cfg.Input)
	}
	if cfg.OutputDir != "build/html" {
		t.Errorf("output_dir = %q", cfg.OutputDir)
	}
	if cfg.Sidebar.Initial != SidebarHidden || cfg.Sidebar.Width != 300 {
		t.Errorf("sidebar = %+v", cfg.Sidebar)
	}
	if cfg.ContentsKey != "c" {
		t.Errorf("contents_key = %q", cfg.ContentsKey)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".ttweave.yml")
	content := `title: The TANGLE processor
input: out/tangle.specials
sidebar:
  initial: visible
  width: 420
server:
  port: 9000
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Title != "The TANGLE processor" {
		t.Errorf("title = %q", cfg.Title)
	}
	if cfg.Input != "out/tangle.specials" {
		t.Errorf("input = %q", cfg.Input)
	}
	if cfg.Sidebar.Initial != SidebarVisible || cfg.Sidebar.Width != 420 {
		t.Errorf("sidebar = %+v", cfg.Sidebar)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	// Unset fields keep their defaults.
	if cfg.Sidebar.CollapsePx != 100 {
		t.Errorf("collapse_px = %d, want default", cfg.Sidebar.CollapsePx)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TTWEAVE_TITLE", "Overridden")
	t.Setenv("TTWEAVE_OUTPUT_DIR", "elsewhere/html")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Title != "Overridden" {
		t.Errorf("title = %q", cfg.Title)
	}
	if cfg.OutputDir != "elsewhere/html" {
		t.Errorf("output_dir = %q", cfg.OutputDir)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".ttweave.yml")
	orig := DefaultConfig()
	orig.Title = "Round trip"
	orig.Server.Port = 3000
	if err := orig.Save(path); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Title != "Round trip" || cfg.Server.Port != 3000 {
		t.Errorf("got %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"missing input", func(c *Config) { c.Input = "" }, false},
		{"missing output dir", func(c *Config) { c.OutputDir = "" }, false},
		{"bad sidebar initial", func(c *Config) { c.Sidebar.Initial = "sideways" }, false},
		{"zero sidebar width", func(c *Config) { c.Sidebar.Width = 0 }, false},
		{"negative collapse", func(c *Config) { c.Sidebar.CollapsePx = -1 }, false},
		{"long contents key", func(c *Config) { c.ContentsKey = "ctrl" }, false},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, false},
	}
	for _, c := range cases {
		cfg := DefaultConfig()
		c.mutate(cfg)
		err := cfg.Validate()
		if c.ok && err != nil {
			t.Errorf("%s: unexpected error %v", c.name, err)
		}
		if !c.ok && err == nil {
			t.Errorf("%s: expected error", c.name)
		}
	}
}
