// pattern: Imperative Shell

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"opsdash/internal/config"
	"opsdash/internal/gauge"
)

const (
	gaugeLabelWidth = 5
	gaugeTextWidth  = 20
	minBarWidth     = 8
)

// View renders the dashboard.
func (m Model) View() string {
	if !m.ready {
		return "starting opsdash…"
	}

	layout := m.layout()
	parts := []string{
		m.renderHeader(layout.Header.Width),
		m.renderBody(layout.Body),
	}
	if layout.Gauges.Height > 0 {
		parts = append(parts, m.renderGauges(layout.Gauges.Width))
	}
	parts = append(parts, m.renderStatusBar(layout.StatusBar.Width))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderHeader(width int) string {
	title := m.styles.TitleStyle().Render("opsdash")
	if m.version != "" {
		title += " " + m.styles.HelpStyle().Render(m.version)
	}

	var sub []string
	if m.mode == config.ModeSnapshot {
		sub = append(sub, "config snapshot", m.snap.Visible().String()+" view", "t: "+strings.ToLower(m.snap.ToggleLabel()))
	} else {
		sub = append(sub, "live log", m.followIndicator())
		if dropped := m.engine.Dropped(); dropped > 0 {
			sub = append(sub, fmt.Sprintf("%d lines ignored", dropped))
		}
		if m.linesClosed {
			sub = append(sub, "stream ended")
		}
	}
	if m.panel.Synthetic {
		sub = append(sub, "metrics simulated")
	}
	if m.cfg.Server != "" {
		sub = append(sub, m.cfg.Server)
	}

	subtitle := m.styles.SubtitleStyle().Render(ansi.Truncate(strings.Join(sub, " · "), width, "…"))
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle)
}

func (m Model) followIndicator() string {
	if !m.engine.Gate().Tailing {
		return m.styles.FollowStyle(false).Render("historical")
	}
	if m.engine.Following() {
		return m.styles.FollowStyle(true).Render("● following")
	}
	return m.styles.FollowStyle(false).Render("‖ paused (G to follow)")
}

func (m Model) renderBody(r Region) string {
	var body string
	switch {
	case m.mode == config.ModeLive:
		body = m.logView.View()
	case m.treeVisible():
		body = m.tree.View(m.styles, r.Width)
	default:
		body = m.rawView.View()
	}
	return lipgloss.NewStyle().Width(r.Width).Height(r.Height).MaxHeight(r.Height).Render(body)
}

func (m Model) renderGauges(width int) string {
	style := m.styles.PanelStyle()
	inner := width - style.GetHorizontalFrameSize()
	barWidth := max(minBarWidth, inner-gaugeLabelWidth-gaugeTextWidth-4)

	var rows []string
	for _, row := range m.panel.VisibleRows() {
		rows = append(rows, m.renderGaugeRow(row, barWidth))
	}
	return style.Width(max(0, width-2)).Render(strings.Join(rows, "\n"))
}

func (m Model) renderGaugeRow(row gauge.Row, barWidth int) string {
	text := row.Text
	if row.Kind == gauge.RAM || row.Kind == gauge.Disk {
		text = fmt.Sprintf("%s (%d%%)", row.Text, row.Percent)
	}
	return m.styles.GaugeLabelStyle().Render(row.Kind.String()) + " " +
		m.styles.GaugeStyle(row.Percent).Render(gauge.Bar(row.Fill, barWidth)) + " " +
		m.styles.TextStyle().Render(text)
}

func (m Model) helpKeys() modeHelp {
	return modeHelp{
		keys: m.keys,
		tree: m.treeVisible(),
		snap: m.mode == config.ModeSnapshot,
	}
}

func (m Model) statusLines() int {
	if !m.help.ShowAll {
		return 1
	}
	return 1 + lipgloss.Height(m.help.View(m.helpKeys()))
}

// renderStatusBar shows the latest warning or error on the left and key help
// on the right.
func (m Model) renderStatusBar(width int) string {
	if m.help.ShowAll {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.renderProblem(width),
			m.help.View(m.helpKeys()),
		)
	}

	helpText := m.help.ShortHelpView(m.helpKeys().ShortHelp())
	helpWidth := lipgloss.Width(helpText)
	problem := m.renderProblem(width - helpWidth - 2)

	spacerWidth := width - lipgloss.Width(problem) - helpWidth
	if spacerWidth < 1 {
		spacerWidth = 1
	}
	return problem + strings.Repeat(" ", spacerWidth) + helpText
}

func (m Model) renderProblem(width int) string {
	if m.lastProblem == nil || width <= 0 {
		return ""
	}
	e := m.lastProblem
	text := fmt.Sprintf("%s %s [%s] %s", e.Timestamp.Format("15:04:05"), e.Level, e.Scope, e.Message)
	if errText, ok := e.Fields["error"]; ok {
		text += fmt.Sprintf(": %v", errText)
	}
	if m.problemsDropped != nil {
		if n := m.problemsDropped(); n > 0 {
			text += fmt.Sprintf(" (+%d dropped)", n)
		}
	}
	return m.styles.ProblemStyle(e.Level).Render(ansi.Truncate(text, width, "…"))
}
