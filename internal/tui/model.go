// pattern: Imperative Shell

package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"opsdash/internal/config"
	"opsdash/internal/gauge"
	"opsdash/internal/logging"
	"opsdash/internal/metrics"
	"opsdash/internal/push"
	"opsdash/internal/snapshot"
	"opsdash/internal/tail"
)

// Options wires the dashboard to its producers. Every channel is optional.
type Options struct {
	// Context bounds background work started by the model, such as the
	// snapshot download. Defaults to context.Background.
	Context  context.Context
	Config   *config.Config
	Version  string
	Initial  string // text the body shows before any push arrives
	Lines    <-chan push.LogLine
	Metrics  <-chan metrics.Result
	Problems <-chan logging.LogEntry
	Snapshot *snapshot.Controller
	Logs     logging.LoggerProvider

	// ProblemsDropped reports how many problem entries were lost before the
	// dashboard could read them.
	ProblemsDropped func() int
}

// Model represents the dashboard state. Pointer fields are shared between
// copies; bubbletea only ever drives one copy at a time.
type Model struct {
	ctx     context.Context
	width   int
	height  int
	ready   bool
	version string
	styles  *Styles
	keys    KeyMap
	help    help.Model

	cfg        *config.Config
	mode       config.ViewMode
	initial    string
	engine     *tail.Engine
	logView    *viewport.Model
	logSurface *viewportSurface

	snap    *snapshot.Controller
	rawView *viewport.Model
	tree    *treeView

	panel gauge.Panel
	units gauge.Units

	lines    <-chan push.LogLine
	metrics  <-chan metrics.Result
	problems <-chan logging.LogEntry

	lastProblem     *logging.LogEntry
	problemsDropped func() int
	linesClosed     bool

	logger *logging.ScopedLogger
}

// NewModel creates the dashboard model.
func NewModel(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := opts.Config
	if cfg == nil {
		def := config.DefaultConfig()
		cfg = &def
	}

	logger := logging.NopLogger()
	tailLogger := logging.NopLogger()
	if opts.Logs != nil {
		logger = opts.Logs.For("tui")
		tailLogger = opts.Logs.For("tail")
	}

	styles := NewStyles(cfg.Theme)
	h := help.New()
	h.Styles = styles.HelpStyles()

	engine := tail.NewEngine(tail.Options{
		Gate:      tail.Gate{Mode: cfg.View.Mode, Tailing: cfg.View.Live},
		Capacity:  cfg.Buffer.CapacityChars,
		Retain:    cfg.Buffer.RetainChars,
		BottomEps: cfg.Buffer.BottomEps,
		Logger:    tailLogger,
	})

	snap := opts.Snapshot
	if cfg.View.Mode == config.ModeSnapshot && snap == nil {
		snap = snapshot.New(snapshot.Options{})
		snap.Load(opts.Initial)
	}

	return Model{
		ctx:      ctx,
		version:  opts.Version,
		styles:   styles,
		keys:     DefaultKeyMap(),
		help:     h,
		cfg:      cfg,
		mode:     cfg.View.Mode,
		initial:  opts.Initial,
		engine:   engine,
		snap:     snap,
		tree:     &treeView{},
		panel:    gauge.Hidden(),
		units:    gauge.Units{RAM: cfg.Metrics.RAMUnit, Disk: cfg.Metrics.DiskUnit},
		lines:    opts.Lines,
		metrics:  opts.Metrics,
		problems: opts.Problems,
		logger:   logger,

		problemsDropped: opts.ProblemsDropped,
	}
}

// Init starts the channel consumers and the one-shot snapshot download.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		waitForLines(m.lines),
		waitForMetrics(m.metrics),
		waitForProblem(m.problems),
	}
	if m.snap != nil && m.snap.Pending() {
		cmds = append(cmds, fetchSnapshot(m.ctx, m.snap, m.cfg.Snapshot.Timeout))
	}
	return tea.Batch(cmds...)
}

// Engine exposes the live tail state.
func (m Model) Engine() *tail.Engine {
	return m.engine
}

// Panel returns the gauge panel currently shown.
func (m Model) Panel() gauge.Panel {
	return m.panel
}

// Message types delivered by producer goroutines.

// logLinesMsg carries the lines that were waiting on the channel, in arrival
// order. closed is set when the channel was closed after them.
type logLinesMsg struct {
	lines  []string
	closed bool
}

type metricsMsg struct {
	result metrics.Result
}

type problemMsg struct {
	entry logging.LogEntry
}

type snapshotFetchedMsg struct {
	body []byte
	err  error
}

// maxLineBatch bounds how many queued lines one message carries.
const maxLineBatch = 512

// waitForLines blocks for one pushed line, then takes whatever else is
// already queued so the viewport is redrawn once per batch. Update re-arms it
// after each batch; lines stay in arrival order.
func waitForLines(ch <-chan push.LogLine) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		l, ok := <-ch
		if !ok {
			return logLinesMsg{closed: true}
		}
		msg := logLinesMsg{lines: []string{l.Line}}
		for len(msg.lines) < maxLineBatch {
			select {
			case l, ok := <-ch:
				if !ok {
					msg.closed = true
					return msg
				}
				msg.lines = append(msg.lines, l.Line)
			default:
				return msg
			}
		}
		return msg
	}
}

func waitForMetrics(ch <-chan metrics.Result) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return nil
		}
		return metricsMsg{result: r}
	}
}

func waitForProblem(ch <-chan logging.LogEntry) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return nil
		}
		return problemMsg{entry: e}
	}
}

// fetchSnapshot downloads the latest snapshot off the update loop; the
// controller applies the result in Update. Cancelling ctx aborts it.
func fetchSnapshot(ctx context.Context, snap *snapshot.Controller, timeout time.Duration) tea.Cmd {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		body, err := snap.Fetch(ctx)
		return snapshotFetchedMsg{body: body, err: err}
	}
}
