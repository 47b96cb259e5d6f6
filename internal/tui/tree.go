// pattern: Imperative Shell

package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"opsdash/internal/jsontree"
)

// treeView is the cursor and scroll state over a rendered JSON tree.
type treeView struct {
	root   *jsontree.Node
	lines  []jsontree.Line
	cursor int
	offset int
	height int
}

func (t *treeView) SetRoot(root *jsontree.Node) {
	t.root = root
	t.cursor = 0
	t.offset = 0
	t.refresh()
}

func (t *treeView) refresh() {
	t.lines = jsontree.Flatten(t.root)
	if t.cursor >= len(t.lines) {
		t.cursor = max(0, len(t.lines)-1)
	}
	t.clampOffset()
}

func (t *treeView) SetHeight(h int) {
	t.height = max(1, h)
	t.clampOffset()
}

func (t *treeView) Move(delta int) {
	if len(t.lines) == 0 {
		return
	}
	t.cursor = max(0, min(len(t.lines)-1, t.cursor+delta))
	t.clampOffset()
}

func (t *treeView) Top() {
	t.cursor = 0
	t.clampOffset()
}

func (t *treeView) Bottom() {
	t.cursor = max(0, len(t.lines)-1)
	t.clampOffset()
}

// ToggleCursor expands or collapses the node under the cursor.
func (t *treeView) ToggleCursor() {
	if t.cursor >= len(t.lines) {
		return
	}
	if jsontree.Toggle(t.lines[t.cursor].Node) {
		t.refresh()
	}
}

func (t *treeView) ExpandAll(expanded bool) {
	jsontree.ExpandAll(t.root, expanded)
	if !expanded {
		t.cursor = 0
	}
	t.refresh()
}

func (t *treeView) clampOffset() {
	if t.height <= 0 {
		return
	}
	if t.cursor < t.offset {
		t.offset = t.cursor
	}
	if t.cursor >= t.offset+t.height {
		t.offset = t.cursor - t.height + 1
	}
	t.offset = max(0, min(t.offset, max(0, len(t.lines)-t.height)))
}

func (t *treeView) View(styles *Styles, width int) string {
	end := min(len(t.lines), t.offset+t.height)
	rows := make([]string, 0, t.height)
	for i := t.offset; i < end; i++ {
		rows = append(rows, t.renderLine(styles, t.lines[i], i == t.cursor, width))
	}
	for len(rows) < t.height {
		rows = append(rows, "")
	}
	return strings.Join(rows, "\n")
}

func (t *treeView) renderLine(styles *Styles, l jsontree.Line, selected bool, width int) string {
	marker := "  "
	if l.Node.IsContainer() {
		marker = "▸ "
		if l.Node.Expanded {
			marker = "▾ "
		}
	}
	text := strings.Repeat("  ", l.Depth) + marker + l.Node.Header()
	text = ansi.Truncate(text, width, "…")

	switch {
	case selected:
		return styles.TreeCursorStyle().Render(text)
	case l.Node.Kind == jsontree.KindInvalid:
		return styles.InvalidStyle().Render(text)
	case l.Node.IsContainer():
		return styles.TreeKeyStyle().Render(text)
	default:
		return styles.TextStyle().Render(text)
	}
}
