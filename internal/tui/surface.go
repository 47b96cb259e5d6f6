// pattern: Imperative Shell

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"

	"opsdash/internal/tail"
)

// viewportSurface lets a tail engine drive a bubbles viewport. Appends are
// collected as lines and handed to the viewport on Flush, once per batch of
// pushed lines, since SetContent re-splits the whole text.
type viewportSurface struct {
	vp     *viewport.Model
	lines  []string
	dirty  bool
	bottom bool
}

func newViewportSurface(vp *viewport.Model) *viewportSurface {
	return &viewportSurface{vp: vp, lines: []string{""}}
}

func (s *viewportSurface) SetText(text string) {
	s.lines = strings.Split(text, "\n")
	s.dirty = true
}

// AppendLine mirrors textbuf.Buffer.Append on the split form of the text: a
// trailing empty element stands for the final newline.
func (s *viewportSurface) AppendLine(line string) {
	last := len(s.lines) - 1
	parts := strings.Split(line, "\n")
	if last >= 0 && s.lines[last] == "" {
		s.lines = s.lines[:last]
	}
	s.lines = append(s.lines, parts...)
	s.lines = append(s.lines, "")
	s.dirty = true
}

func (s *viewportSurface) Geometry() tail.Geometry {
	s.Flush()
	return tail.Geometry{
		ScrollHeight: s.vp.TotalLineCount(),
		ScrollTop:    s.vp.YOffset,
		ClientHeight: s.vp.Height,
	}
}

func (s *viewportSurface) ScrollToBottom() {
	s.bottom = true
}

// Flush pushes pending text and scroll changes into the viewport.
func (s *viewportSurface) Flush() {
	if s.dirty {
		s.vp.SetContent(strings.Join(s.lines, "\n"))
		s.dirty = false
	}
	if s.bottom {
		s.vp.GotoBottom()
		s.bottom = false
	}
}

// detachedSurface accepts a mount in snapshot mode, where the body belongs
// to the snapshot view and pushed lines must never be shown.
type detachedSurface struct{}

func (detachedSurface) SetText(string) {}

func (detachedSurface) AppendLine(string) {}

func (detachedSurface) Geometry() tail.Geometry { return tail.Geometry{} }

func (detachedSurface) ScrollToBottom() {}
