package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/viewport"

	"opsdash/internal/textbuf"
)

func TestViewportSurface_MirrorsBuffer(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		lines   []string
	}{
		{"empty start", "", []string{"a", "b"}},
		{"initial ends in newline", "boot\n", []string{"x"}},
		{"initial without newline", "boot", []string{"x", "y"}},
		{"embedded newline", "", []string{"one\ntwo", "three"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vp := viewport.New(40, 5)
			s := newViewportSurface(&vp)
			buf := textbuf.New(1000, 500)

			buf.Load(tt.initial)
			s.SetText(buf.Text())
			for _, l := range tt.lines {
				buf.Append(l)
				s.AppendLine(l)
			}

			if got := strings.Join(s.lines, "\n"); got != buf.Text() {
				t.Errorf("surface text = %q, buffer = %q", got, buf.Text())
			}
		})
	}
}

func TestViewportSurface_FlushIsDeferred(t *testing.T) {
	vp := viewport.New(40, 2)
	s := newViewportSurface(&vp)
	s.SetText("1\n2\n3\n")
	s.AppendLine("4")
	s.ScrollToBottom()

	if vp.TotalLineCount() != 0 {
		t.Fatalf("viewport updated before Flush: %d lines", vp.TotalLineCount())
	}

	s.Flush()
	if vp.TotalLineCount() != 5 || !vp.AtBottom() {
		t.Errorf("after Flush lines = %d at bottom = %v", vp.TotalLineCount(), vp.AtBottom())
	}

	s.AppendLine("5")
	if g := s.Geometry(); g.ScrollHeight != 6 {
		t.Errorf("Geometry should flush pending lines, ScrollHeight = %d", g.ScrollHeight)
	}
}
