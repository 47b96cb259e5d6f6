package tui

import (
	"strings"
	"testing"

	"opsdash/internal/jsontree"
)

func newTree(t *testing.T, text string, height int) *treeView {
	t.Helper()
	v, err := jsontree.Parse(text)
	if err != nil {
		t.Fatal(err)
	}
	tv := &treeView{}
	tv.SetHeight(height)
	tv.SetRoot(jsontree.Build(v, "root", true))
	return tv
}

func TestTreeView_Navigation(t *testing.T) {
	tv := newTree(t, `{"a":1,"b":{"c":2},"d":[1,2]}`, 10)

	if len(tv.lines) != 4 {
		t.Fatalf("visible lines = %d, want 4", len(tv.lines))
	}
	tv.Move(2)
	if got := tv.lines[tv.cursor].Node.Header(); got != "b: Object" {
		t.Fatalf("cursor on %q", got)
	}
	tv.ToggleCursor()
	if len(tv.lines) != 5 || tv.lines[3].Node.Header() != "c: 2" {
		t.Errorf("after expand lines = %d", len(tv.lines))
	}

	tv.Move(100)
	if tv.cursor != len(tv.lines)-1 {
		t.Errorf("cursor = %d, want clamped to last line", tv.cursor)
	}
	tv.Move(-100)
	if tv.cursor != 0 {
		t.Errorf("cursor = %d, want 0", tv.cursor)
	}
}

func TestTreeView_ExpandAllAndCollapse(t *testing.T) {
	tv := newTree(t, `{"a":{"b":{"c":1}}}`, 10)
	tv.ExpandAll(true)
	if len(tv.lines) != 4 {
		t.Errorf("expanded lines = %d, want 4", len(tv.lines))
	}
	tv.Bottom()
	tv.ExpandAll(false)
	if len(tv.lines) != 1 || tv.cursor != 0 {
		t.Errorf("collapsed lines = %d cursor = %d", len(tv.lines), tv.cursor)
	}
}

func TestTreeView_ScrollKeepsCursorVisible(t *testing.T) {
	tv := newTree(t, `[0,1,2,3,4,5,6,7,8,9]`, 3)
	tv.Move(6)
	if tv.offset != 4 {
		t.Errorf("offset = %d, want 4", tv.offset)
	}
	view := tv.View(NewStyles("mocha"), 40)
	if got := strings.Count(view, "\n") + 1; got != 3 {
		t.Errorf("view has %d rows, want 3", got)
	}
	if !strings.Contains(view, "[5]: 5") {
		t.Errorf("view should show the cursor row:\n%s", view)
	}
}

func TestTreeView_Markers(t *testing.T) {
	tv := newTree(t, `{"o":{}}`, 5)
	view := tv.View(NewStyles("mocha"), 40)
	if !strings.Contains(view, "▾ root: Object") || !strings.Contains(view, "▸ o: Object") {
		t.Errorf("markers missing:\n%s", view)
	}
}
