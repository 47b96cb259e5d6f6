package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestLoadFullConfig(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")
	configContent := `
theme: latte
log_level: debug
server: http://pi.local:8080
view:
  mode: cfg
  live: false
  initial_path: /var/lib/app/cfg.json
push:
  path: /socket/logs
  file: /var/log/app/today.log
  queue_size: 32
buffer:
  capacity_chars: 4096
  retain_chars: 1024
  bottom_eps: 2
snapshot:
  download_url: /download/cfg/20251024
  timeout: 3s
metrics:
  enabled: true
  path: /api/sys
  interval: 2s
  fallback: simulate
  ram_unit: GB
  disk_unit: MB
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.Theme != "latte" {
		t.Errorf("Theme: got %q, want %q", cfg.Theme, "latte")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.View.Mode != ModeSnapshot {
		t.Errorf("View.Mode: got %q, want %q", cfg.View.Mode, ModeSnapshot)
	}
	if cfg.View.Live {
		t.Error("View.Live: got true, want false")
	}
	if cfg.Push.File != "/var/log/app/today.log" || cfg.Push.QueueSize != 32 {
		t.Errorf("Push: got %+v", cfg.Push)
	}
	if cfg.Buffer != (BufferConfig{CapacityChars: 4096, RetainChars: 1024, BottomEps: 2}) {
		t.Errorf("Buffer: got %+v", cfg.Buffer)
	}
	if cfg.Snapshot.Timeout != 3*time.Second {
		t.Errorf("Snapshot.Timeout: got %v, want 3s", cfg.Snapshot.Timeout)
	}
	if cfg.Metrics.Interval != 2*time.Second {
		t.Errorf("Metrics.Interval: got %v, want 2s", cfg.Metrics.Interval)
	}
	if cfg.Metrics.Fallback != FallbackSimulate {
		t.Errorf("Metrics.Fallback: got %q, want %q", cfg.Metrics.Fallback, FallbackSimulate)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.View.Mode != ModeLive || !cfg.View.Live {
		t.Errorf("View defaults: got %+v", cfg.View)
	}
	if cfg.Metrics.Interval != 5*time.Second {
		t.Errorf("Metrics.Interval default = %v, want 5s", cfg.Metrics.Interval)
	}
}

func TestLoadFrom_PartialKeepsDefaults(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("metrics:\n  fallback: simulate\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Metrics.Path != "/api/sys" {
		t.Errorf("Metrics.Path = %q, want default", cfg.Metrics.Path)
	}
	if cfg.Metrics.RAMUnit != UnitMB || cfg.Metrics.DiskUnit != UnitGB {
		t.Errorf("units = %q/%q, want MB/GB", cfg.Metrics.RAMUnit, cfg.Metrics.DiskUnit)
	}
	if !cfg.View.Live {
		t.Error("View.Live should stay true when view section absent")
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("view: [unclosed"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err == nil {
		t.Fatal("LoadFrom() should fail on invalid YAML")
	}
	if cfg.Theme != "mocha" {
		t.Errorf("defaults not returned on error: %+v", cfg)
	}
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("theme: frappe\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	cfg, err := LoadFromDir(dir)
	if err != nil {
		t.Fatalf("LoadFromDir() error = %v", err)
	}
	if cfg.Theme != "frappe" {
		t.Errorf("Theme = %q, want frappe", cfg.Theme)
	}
}

func TestLoadFrom_EmptyLogLevelUsesDefault(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("log_level: \"\"\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("cfg.LogLevel = %q, want %q (default)", cfg.LogLevel, "info")
	}
}

func TestViewMode_UnmarshalYAML(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		want    ViewMode
		wantErr bool
	}{
		{"live", "view:\n  mode: live-log\n", ModeLive, false},
		{"snapshot", "view:\n  mode: cfg\n", ModeSnapshot, false},
		{"unknown", "view:\n  mode: tree\n", "", true},
		{"not a string", "view:\n  mode: [a]\n", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			err := yaml.Unmarshal([]byte(tt.doc), &cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("yaml.Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && cfg.View.Mode != tt.want {
				t.Errorf("View.Mode = %q, want %q", cfg.View.Mode, tt.want)
			}
		})
	}
}

func TestLoadFrom_UnknownModeFails(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("view:\n  mode: tree\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(configPath); err == nil {
		t.Error("LoadFrom() should reject an unknown view mode")
	}
}

func TestParseViewMode(t *testing.T) {
	tests := []struct {
		in      string
		want    ViewMode
		wantErr bool
	}{
		{"live-log", ModeLive, false},
		{"cfg", ModeSnapshot, false},
		{" cfg ", ModeSnapshot, false},
		{"snapshot", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseViewMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseViewMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseViewMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"bad mode", func(c *Config) { c.View.Mode = "tv" }, "unknown view mode"},
		{"bad server", func(c *Config) { c.Server = "ftp://x" }, "server must be"},
		{"retain above capacity", func(c *Config) { c.Buffer.RetainChars = c.Buffer.CapacityChars + 1 }, "retain_chars"},
		{"zero capacity", func(c *Config) { c.Buffer.CapacityChars = 0 }, "capacity_chars"},
		{"negative eps", func(c *Config) { c.Buffer.BottomEps = -1 }, "bottom_eps"},
		{"bad fallback", func(c *Config) { c.Metrics.Fallback = "blend" }, "fallback"},
		{"bad unit", func(c *Config) { c.Metrics.DiskUnit = "TB" }, "disk_unit"},
		{"zero interval", func(c *Config) { c.Metrics.Interval = 0 }, "interval"},
		{"no server, strict metrics", func(c *Config) { c.Server = "" }, "need a server"},
		{"no server, simulated metrics", func(c *Config) {
			c.Server = ""
			c.Metrics.Fallback = FallbackSimulate
		}, ""},
		{"metrics disabled skips metric checks", func(c *Config) {
			c.Metrics.Enabled = false
			c.Metrics.Fallback = "whatever"
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestURLs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server = "http://pi.local:8080"
	cfg.Snapshot.DownloadURL = "/download/cfg/20251024"

	if got, want := cfg.MetricsURL(), "http://pi.local:8080/api/sys"; got != want {
		t.Errorf("MetricsURL() = %q, want %q", got, want)
	}
	if got, want := cfg.DownloadURL(), "http://pi.local:8080/download/cfg/20251024"; got != want {
		t.Errorf("DownloadURL() = %q, want %q", got, want)
	}
	if got, want := cfg.PushURL(), "ws://pi.local:8080/ws/logs"; got != want {
		t.Errorf("PushURL() = %q, want %q", got, want)
	}

	cfg.Server = "https://dash.example.com"
	if got, want := cfg.PushURL(), "wss://dash.example.com/ws/logs"; got != want {
		t.Errorf("PushURL() = %q, want %q", got, want)
	}

	cfg.Snapshot.DownloadURL = "http://other.host/cfg.json"
	if got, want := cfg.DownloadURL(), "http://other.host/cfg.json"; got != want {
		t.Errorf("absolute DownloadURL() = %q, want %q", got, want)
	}

	cfg.Snapshot.DownloadURL = ""
	if got := cfg.DownloadURL(); got != "" {
		t.Errorf("DownloadURL() = %q, want empty when unset", got)
	}
}

func TestResolveDataDir(t *testing.T) {
	if got := ResolveDataDir("/tmp/custom"); got != "/tmp/custom" {
		t.Errorf("ResolveDataDir(custom) = %q", got)
	}
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	if got, want := ResolveDataDir(""), filepath.Join("/tmp/state", "opsdash"); got != want {
		t.Errorf("ResolveDataDir(\"\") = %q, want %q", got, want)
	}
}
