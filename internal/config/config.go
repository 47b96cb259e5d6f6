// pattern: Imperative Shell

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ViewMode selects what the main surface shows. It is fixed at startup.
type ViewMode string

const (
	ModeLive     ViewMode = "live-log"
	ModeSnapshot ViewMode = "cfg"
)

// Fallback policies for a failed metrics poll.
const (
	FallbackHide     = "hide"
	FallbackSimulate = "simulate"
)

// Byte units for ratio gauges.
const (
	UnitMB = "MB"
	UnitGB = "GB"
)

type Config struct {
	Theme    string         `yaml:"theme"`
	LogLevel string         `yaml:"log_level"`
	Server   string         `yaml:"server"`
	View     ViewConfig     `yaml:"view"`
	Push     PushConfig     `yaml:"push"`
	Buffer   BufferConfig   `yaml:"buffer"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ViewConfig holds the surface attributes read once at startup.
type ViewConfig struct {
	Mode ViewMode `yaml:"mode"`
	// Live distinguishes tailing now from showing a historical file in
	// live-log mode.
	Live bool `yaml:"live"`
	// InitialPath is a file whose content the surface starts with.
	InitialPath string `yaml:"initial_path"`
}

// PushConfig configures where log lines are pushed from.
type PushConfig struct {
	Path      string `yaml:"path"`       // websocket path on Server
	File      string `yaml:"file"`       // follow a local file instead of the websocket
	QueueSize int    `yaml:"queue_size"` // bounded channel between transport and consumer
}

// BufferConfig bounds the live log text.
type BufferConfig struct {
	CapacityChars int `yaml:"capacity_chars"`
	RetainChars   int `yaml:"retain_chars"`
	BottomEps     int `yaml:"bottom_eps"`
}

// SnapshotConfig configures the one-shot refresh of a cfg surface.
type SnapshotConfig struct {
	DownloadURL string        `yaml:"download_url"`
	Timeout     time.Duration `yaml:"timeout"`
}

// MetricsConfig configures the system gauge poller.
type MetricsConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Path     string        `yaml:"path"`
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
	Fallback string        `yaml:"fallback"`
	RAMUnit  string        `yaml:"ram_unit"`
	DiskUnit string        `yaml:"disk_unit"`
}

func DefaultConfig() Config {
	return Config{
		Theme:    "mocha",
		LogLevel: "info",
		Server:   "http://127.0.0.1:5000",
		View: ViewConfig{
			Mode: ModeLive,
			Live: true,
		},
		Push: PushConfig{
			Path:      "/ws/logs",
			QueueSize: 256,
		},
		Buffer: BufferConfig{
			CapacityChars: 200_000,
			RetainChars:   150_000,
			BottomEps:     1,
		},
		Snapshot: SnapshotConfig{
			Timeout: 10 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled:  true,
			Path:     "/api/sys",
			Interval: 5 * time.Second,
			Timeout:  4 * time.Second,
			Fallback: FallbackHide,
			RAMUnit:  UnitMB,
			DiskUnit: UnitGB,
		},
	}
}

func Load() (Config, error) {
	return LoadFrom(getConfigPath())
}

// LoadFromDir loads config.yaml from dir.
func LoadFromDir(dir string) (Config, error) {
	return LoadFrom(filepath.Join(dir, "config.yaml"))
}

// LoadFrom reads the config at configPath over the defaults. A missing file
// yields the defaults.
func LoadFrom(configPath string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse %s: %w", configPath, err)
	}

	if cfg.Theme == "" {
		cfg.Theme = "mocha"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// ParseViewMode accepts the surface mode selector values.
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(strings.TrimSpace(s)) {
	case ModeLive:
		return ModeLive, nil
	case ModeSnapshot:
		return ModeSnapshot, nil
	default:
		return "", fmt.Errorf("unknown view mode %q (want %q or %q)", s, ModeLive, ModeSnapshot)
	}
}

// UnmarshalYAML rejects unknown modes while decoding the config file.
func (m *ViewMode) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	mode, err := ParseViewMode(s)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Validate checks values that cannot be defaulted silently.
func (c *Config) Validate() error {
	if _, err := ParseViewMode(string(c.View.Mode)); err != nil {
		return err
	}
	if c.Server != "" {
		u, err := url.Parse(c.Server)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("server must be an http(s) URL, got %q", c.Server)
		}
	}
	if c.Buffer.CapacityChars <= 0 {
		return fmt.Errorf("buffer.capacity_chars must be positive")
	}
	if c.Buffer.RetainChars <= 0 || c.Buffer.RetainChars > c.Buffer.CapacityChars {
		return fmt.Errorf("buffer.retain_chars must be in (0, %d]", c.Buffer.CapacityChars)
	}
	if c.Buffer.BottomEps < 0 {
		return fmt.Errorf("buffer.bottom_eps must not be negative")
	}
	if c.Metrics.Enabled {
		if c.Metrics.Interval <= 0 {
			return fmt.Errorf("metrics.interval must be positive")
		}
		switch c.Metrics.Fallback {
		case FallbackHide, FallbackSimulate:
		default:
			return fmt.Errorf("metrics.fallback must be %q or %q, got %q", FallbackHide, FallbackSimulate, c.Metrics.Fallback)
		}
		for name, unit := range map[string]string{"ram_unit": c.Metrics.RAMUnit, "disk_unit": c.Metrics.DiskUnit} {
			if unit != UnitMB && unit != UnitGB {
				return fmt.Errorf("metrics.%s must be %q or %q, got %q", name, UnitMB, UnitGB, unit)
			}
		}
		if c.Server == "" && c.Metrics.Fallback != FallbackSimulate {
			return fmt.Errorf("metrics need a server unless fallback is %q", FallbackSimulate)
		}
	}
	return nil
}

// MetricsURL returns the absolute metrics endpoint.
func (c *Config) MetricsURL() string {
	return c.resolve(c.Metrics.Path)
}

// DownloadURL returns the absolute snapshot refresh URL, or "" when none is
// configured. Relative values are resolved against Server.
func (c *Config) DownloadURL() string {
	if c.Snapshot.DownloadURL == "" {
		return ""
	}
	return c.resolve(c.Snapshot.DownloadURL)
}

// PushURL returns the websocket URL for the log push channel.
func (c *Config) PushURL() string {
	raw := c.resolve(c.Push.Path)
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	return u.String()
}

func (c *Config) resolve(ref string) string {
	if c.Server == "" {
		return ref
	}
	base, err := url.Parse(c.Server)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(r).String()
}

// ResolveDataDir returns the directory holding the log file and lock.
func ResolveDataDir(configDir string) string {
	if configDir != "" {
		return configDir
	}
	if xdgState := os.Getenv("XDG_STATE_HOME"); xdgState != "" {
		return filepath.Join(xdgState, "opsdash")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "opsdash")
	}
	return filepath.Join(home, ".config", "opsdash")
}

func getConfigPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "opsdash", "config.yaml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "opsdash", "config.yaml")
	}

	return filepath.Join(home, ".config", "opsdash", "config.yaml")
}
