// pattern: Imperative Shell

package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"opsdash/internal/config"
	"opsdash/internal/gauge"
	"opsdash/internal/snapshot"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if !m.ready {
			m.resize()
			m.mount()
			m.ready = true
			return m, nil
		}
		m.relayout()
		return m, nil

	case logLinesMsg:
		for _, line := range msg.lines {
			m.engine.Deliver(line)
		}
		m.flush()
		if msg.closed {
			m.linesClosed = true
			m.logger.Info("push stream ended")
			return m, nil
		}
		return m, waitForLines(m.lines)

	case metricsMsg:
		before := len(m.panel.VisibleRows())
		m.panel = gauge.FromResult(msg.result, m.units)
		if m.ready && len(m.panel.VisibleRows()) != before {
			m.relayout()
		}
		return m, waitForMetrics(m.metrics)

	case problemMsg:
		if entry := msg.entry; entry.IsProblem() {
			m.lastProblem = &entry
		}
		return m, waitForProblem(m.problems)

	case snapshotFetchedMsg:
		if m.snap != nil && m.snap.Apply(msg.body, msg.err) && m.ready {
			m.syncSnapshot()
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// mount attaches the body to the tail engine. It runs once, on the first
// window size, which is when the viewport comes into existence.
func (m *Model) mount() {
	if m.mode == config.ModeSnapshot {
		m.engine.Mount(detachedSurface{}, "")
		m.syncSnapshot()
		return
	}
	m.logSurface = newViewportSurface(m.logView)
	m.engine.Mount(m.logSurface, m.initial)
	m.flush()
	m.logger.Debug("live surface mounted", "tailing", m.engine.Gate().Tailing)
}

// flush hands batched log text to the viewport.
func (m Model) flush() {
	if m.logSurface != nil {
		m.logSurface.Flush()
	}
}

func (m Model) layout() Layout {
	return ComputeLayout(m.width, m.height, len(m.panel.VisibleRows()), m.statusLines())
}

// resize sizes (creating on first use) the viewports to the body region.
func (m *Model) resize() {
	body := m.layout().Body
	if m.mode == config.ModeSnapshot {
		m.rawView = sizeViewport(m.rawView, body.Width, body.Height)
		m.tree.SetHeight(body.Height)
		return
	}
	m.logView = sizeViewport(m.logView, body.Width, body.Height)
}

// relayout resizes after the first mount. Resizing counts as a scroll
// interaction; a follower stays pinned across it.
func (m *Model) relayout() {
	following := m.engine.Following()
	m.resize()
	if m.logView != nil {
		m.flush()
		if following {
			m.logView.GotoBottom()
		}
		m.engine.Interacted()
	}
}

func sizeViewport(vp *viewport.Model, width, height int) *viewport.Model {
	if vp == nil {
		v := viewport.New(width, height)
		return &v
	}
	vp.Width = width
	vp.Height = height
	return vp
}

func (m *Model) syncSnapshot() {
	if m.snap == nil {
		return
	}
	if m.rawView != nil {
		m.rawView.SetContent(m.snap.Raw())
	}
	m.tree.SetRoot(m.snap.Tree())
}

func (m Model) treeVisible() bool {
	return m.snap != nil && m.snap.Visible() == snapshot.ViewTree
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.logger.Debug("quit requested", "key", msg.String())
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		if m.ready {
			m.relayout()
		}
		return m, nil
	}

	if !m.ready {
		return m, nil
	}

	if m.mode == config.ModeSnapshot {
		return m.handleSnapshotKey(msg)
	}
	return m.handleLiveKey(msg)
}

func (m Model) handleLiveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.flush()
	switch {
	case key.Matches(msg, m.keys.Top):
		m.logView.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.logView.GotoBottom()
	default:
		*m.logView, cmd = m.logView.Update(msg)
	}
	m.engine.Interacted()
	return m, cmd
}

func (m Model) handleSnapshotKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Toggle) {
		m.snap.Toggle()
		return m, nil
	}

	if !m.treeVisible() {
		var cmd tea.Cmd
		switch {
		case key.Matches(msg, m.keys.Top):
			m.rawView.GotoTop()
		case key.Matches(msg, m.keys.Bottom):
			m.rawView.GotoBottom()
		default:
			*m.rawView, cmd = m.rawView.Update(msg)
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.tree.Move(-1)
	case key.Matches(msg, m.keys.Down):
		m.tree.Move(1)
	case key.Matches(msg, m.keys.Top):
		m.tree.Top()
	case key.Matches(msg, m.keys.Bottom):
		m.tree.Bottom()
	case key.Matches(msg, m.keys.Expand):
		m.tree.ToggleCursor()
	case key.Matches(msg, m.keys.ExpandAll):
		m.tree.ExpandAll(true)
	case key.Matches(msg, m.keys.CollapseAll):
		m.tree.ExpandAll(false)
	case msg.Type == tea.KeyPgUp:
		m.tree.Move(-m.tree.height)
	case msg.Type == tea.KeyPgDown:
		m.tree.Move(m.tree.height)
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	switch {
	case m.mode == config.ModeLive:
		m.flush()
		*m.logView, cmd = m.logView.Update(msg)
		m.engine.Interacted()
	case m.treeVisible():
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.tree.Move(-1)
		case tea.MouseButtonWheelDown:
			m.tree.Move(1)
		}
	default:
		*m.rawView, cmd = m.rawView.Update(msg)
	}
	return m, cmd
}
