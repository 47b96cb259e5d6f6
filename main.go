// pattern: Imperative Shell
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"

	"opsdash/internal/config"
	"opsdash/internal/instance"
	"opsdash/internal/logging"
	"opsdash/internal/metrics"
	"opsdash/internal/push"
	"opsdash/internal/snapshot"
	"opsdash/internal/tui"
)

var version = "dev"

// cliFlags holds command line overrides. Only flags the user actually set
// are applied on top of the config file.
type cliFlags struct {
	configDir   string
	server      string
	mode        string
	historical  bool
	followFile  string
	fromStart   bool
	initial     string
	downloadURL string
	demo        bool
	noMetrics   bool
	interval    time.Duration
	theme       string
	logLevel    string
	showVersion bool
}

func newFlagSet(name string) (*flag.FlagSet, *cliFlags) {
	f := &cliFlags{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVarP(&f.configDir, "config-dir", "c", "", "config directory (default: ~/.config/opsdash)")
	fs.StringVar(&f.server, "server", "", "base URL of the server (log push, metrics, snapshot)")
	fs.StringVar(&f.mode, "mode", "", `surface mode: "live-log" or "cfg"`)
	fs.BoolVar(&f.historical, "historical", false, "show the initial text only and ignore pushed lines")
	fs.StringVar(&f.followFile, "follow-file", "", "follow a local log file instead of the websocket")
	fs.BoolVar(&f.fromStart, "from-start", false, "with --follow-file, replay the existing content")
	fs.StringVar(&f.initial, "initial", "", "file whose content the surface starts with")
	fs.StringVar(&f.downloadURL, "download-url", "", "URL of the latest snapshot (cfg mode)")
	fs.BoolVar(&f.demo, "demo", false, "simulate metrics when the server cannot provide them")
	fs.BoolVar(&f.noMetrics, "no-metrics", false, "disable the metrics panel")
	fs.DurationVar(&f.interval, "interval", 0, "metrics polling interval")
	fs.StringVar(&f.theme, "theme", "", "catppuccin flavour: latte, frappe, macchiato, mocha")
	fs.StringVar(&f.logLevel, "log-level", "", "log file level: debug, info, warn, error")
	fs.BoolVar(&f.showVersion, "version", false, "print version and exit")
	return fs, f
}

func main() {
	fs, f := newFlagSet(os.Args[0])
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	if f.showVersion {
		fmt.Println("opsdash", version)
		return
	}

	if err := run(fs, f); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads the configuration from the specified directory or default location.
func loadConfig(configDir string) (config.Config, error) {
	if configDir != "" {
		return config.LoadFromDir(configDir)
	}
	return config.Load()
}

// applyFlags overlays the flags that were set on the command line.
func applyFlags(fs *flag.FlagSet, f *cliFlags, cfg *config.Config) error {
	if fs.Changed("server") {
		cfg.Server = f.server
	}
	if fs.Changed("mode") {
		mode, err := config.ParseViewMode(f.mode)
		if err != nil {
			return err
		}
		cfg.View.Mode = mode
	}
	if fs.Changed("historical") {
		cfg.View.Live = !f.historical
	}
	if fs.Changed("follow-file") {
		cfg.Push.File = f.followFile
	}
	if fs.Changed("initial") {
		cfg.View.InitialPath = f.initial
	}
	if fs.Changed("download-url") {
		cfg.Snapshot.DownloadURL = f.downloadURL
	}
	if f.demo {
		cfg.Metrics.Fallback = config.FallbackSimulate
	}
	if f.noMetrics {
		cfg.Metrics.Enabled = false
	}
	if fs.Changed("interval") {
		cfg.Metrics.Interval = f.interval
	}
	if fs.Changed("theme") {
		cfg.Theme = f.theme
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	return nil
}

// newSource picks the log line transport: a local file when one is
// configured, otherwise the server's websocket. It returns nil when there is
// nothing to listen to.
func newSource(cfg *config.Config, fromStart bool, logs logging.LoggerProvider) push.Source {
	if cfg.Push.File != "" {
		return push.NewFileFollower(cfg.Push.File, push.FileOptions{
			FromStart: fromStart,
			Logger:    logs.For("push.file"),
		})
	}
	if cfg.Server == "" {
		return nil
	}
	return push.NewWSClient(cfg.PushURL(), push.WSOptions{Logger: logs.For("push.ws")})
}

// newPoller builds the metrics poller, or nil when metrics are disabled.
func newPoller(cfg *config.Config, logs logging.LoggerProvider) *metrics.Poller {
	if !cfg.Metrics.Enabled {
		return nil
	}
	var fetcher metrics.Fetcher
	if cfg.Server != "" {
		fetcher = metrics.NewClient(cfg.MetricsURL(), instance.NewClient(cfg.Metrics.Timeout))
	}
	return metrics.NewPoller(fetcher, metrics.PollerOptions{
		Interval: cfg.Metrics.Interval,
		Timeout:  cfg.Metrics.Timeout,
		Fallback: cfg.Metrics.Fallback,
		Logger:   logs.For("metrics"),
	})
}

// run wires producers to the dashboard and blocks until it exits.
func run(fs *flag.FlagSet, f *cliFlags) error {
	// A missing file yields the defaults; an unreadable one is fatal.
	cfg, err := loadConfig(f.configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applyFlags(fs, f, &cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	dataDir := config.ResolveDataDir(f.configDir)

	// Acquire single-instance lock
	fl, err := instance.Lock(dataDir)
	if err != nil {
		return err
	}
	defer instance.Cleanup(dataDir, fl)

	logManager, err := logging.NewManager(logging.Config{
		FilePath:       filepath.Join(dataDir, "opsdash.log"),
		ChannelBufSize: 100,
		Level:          cfg.LogLevel,
	})
	if err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	defer func() { _ = logManager.Close() }()

	appLogger := logManager.For("app")
	appLogger.Info("application starting", "version", version, "mode", cfg.View.Mode, "server", cfg.Server)

	initial, err := snapshot.ReadInitial(cfg.View.InitialPath)
	if err != nil {
		appLogger.Warn("failed to read initial content", "path", cfg.View.InitialPath, "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var snap *snapshot.Controller
	if cfg.View.Mode == config.ModeSnapshot {
		snap = snapshot.New(snapshot.Options{
			DownloadURL: cfg.DownloadURL(),
			Fetcher:     instance.NewClient(cfg.Snapshot.Timeout),
			Logger:      logManager.For("snapshot"),
		})
		snap.Load(initial)
	}

	opts := tui.Options{
		Context:  ctx,
		Config:   &cfg,
		Version:  version,
		Initial:  initial,
		Problems: logManager.Entries(),
		Snapshot: snap,
		Logs:     logManager,

		ProblemsDropped: logManager.Dropped,
	}

	if src := newSource(&cfg, f.fromStart, logManager); src != nil {
		lines := make(chan push.LogLine, cfg.Push.QueueSize)
		opts.Lines = lines
		go func() {
			defer close(lines)
			if err := src.Run(ctx, lines); err != nil {
				appLogger.Error("log source stopped", "error", err)
			}
		}()
	}

	if poller := newPoller(&cfg, logManager); poller != nil {
		results := make(chan metrics.Result, 1)
		opts.Metrics = results
		go func() {
			_ = poller.Run(ctx, results)
		}()
	}

	p := tea.NewProgram(tui.NewModel(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		appLogger.Error("application exited with error", "error", err)
		return fmt.Errorf("running program: %w", err)
	}

	appLogger.Info("application stopped")
	return nil
}
