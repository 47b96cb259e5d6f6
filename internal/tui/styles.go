package tui

import (
	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// Styles derives every colour of the dashboard from one catppuccin flavour.
type Styles struct {
	flavor catppuccin.Flavor
}

func NewStyles(themeName string) *Styles {
	return &Styles{flavor: flavorFromName(themeName)}
}

func flavorFromName(name string) catppuccin.Flavor {
	switch name {
	case "latte":
		return catppuccin.Latte
	case "frappe":
		return catppuccin.Frappe
	case "macchiato":
		return catppuccin.Macchiato
	default:
		return catppuccin.Mocha
	}
}

func (s *Styles) color(c catppuccin.Color) lipgloss.Color {
	return lipgloss.Color(c.Hex)
}

func (s *Styles) TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(s.color(s.flavor.Mauve()))
}

func (s *Styles) SubtitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.color(s.flavor.Subtext0()))
}

func (s *Styles) HelpStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.color(s.flavor.Overlay0()))
}

func (s *Styles) PanelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.color(s.flavor.Surface1())).
		Padding(0, 1)
}

func (s *Styles) TextStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.color(s.flavor.Text()))
}

func (s *Styles) AccentStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.color(s.flavor.Teal()))
}

// FollowStyle marks the live indicator: green while pinned, peach when paused.
func (s *Styles) FollowStyle(following bool) lipgloss.Style {
	c := s.flavor.Green()
	if !following {
		c = s.flavor.Peach()
	}
	return lipgloss.NewStyle().Bold(true).Foreground(s.color(c))
}

func (s *Styles) WarnStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.color(s.flavor.Yellow()))
}

func (s *Styles) ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.color(s.flavor.Red())).
		Bold(true)
}

// ProblemStyle picks the status bar style for a log level.
func (s *Styles) ProblemStyle(level string) lipgloss.Style {
	if level == "ERROR" {
		return s.ErrorStyle()
	}
	return s.WarnStyle()
}

// GaugeStyle colours a gauge bar by how full it is.
func (s *Styles) GaugeStyle(percent int) lipgloss.Style {
	c := s.flavor.Green()
	switch {
	case percent >= 90:
		c = s.flavor.Red()
	case percent >= 75:
		c = s.flavor.Yellow()
	}
	return lipgloss.NewStyle().Foreground(s.color(c))
}

func (s *Styles) GaugeLabelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(s.color(s.flavor.Subtext1())).
		Width(5)
}

func (s *Styles) TreeCursorStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(s.color(s.flavor.Base())).
		Background(s.color(s.flavor.Lavender()))
}

func (s *Styles) TreeKeyStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.color(s.flavor.Blue()))
}

func (s *Styles) InvalidStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Italic(true).
		Foreground(s.color(s.flavor.Red()))
}

// HelpStyles adapts the bubbles help component to the flavour.
func (s *Styles) HelpStyles() help.Styles {
	st := help.New().Styles
	st.ShortKey = lipgloss.NewStyle().Foreground(s.color(s.flavor.Subtext1()))
	st.ShortDesc = s.HelpStyle()
	st.ShortSeparator = s.HelpStyle()
	st.FullKey = st.ShortKey
	st.FullDesc = st.ShortDesc
	st.FullSeparator = st.ShortSeparator
	st.Ellipsis = s.HelpStyle()
	return st
}
