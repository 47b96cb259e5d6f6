// pattern: Imperative Shell

package tail

import (
	"strings"
	"testing"

	"opsdash/internal/config"
)

// fakeSurface models a scrollable text area one line per newline.
type fakeSurface struct {
	text         string
	top          int
	clientHeight int
	scrolls      int
	sets         int
	appends      int
}

func (s *fakeSurface) SetText(text string) {
	s.text = text
	s.sets++
}

func (s *fakeSurface) AppendLine(line string) {
	if s.text != "" && !strings.HasSuffix(s.text, "\n") {
		s.text += "\n"
	}
	s.text += line + "\n"
	s.appends++
}

func (s *fakeSurface) Geometry() Geometry {
	return Geometry{ScrollHeight: strings.Count(s.text, "\n"), ScrollTop: s.top, ClientHeight: s.clientHeight}
}

func (s *fakeSurface) ScrollToBottom() {
	s.top = strings.Count(s.text, "\n")
	s.scrolls++
}

func liveEngine() *Engine {
	return NewEngine(Options{
		Gate:     Gate{Mode: config.ModeLive, Tailing: true},
		Capacity: 1000,
		Retain:   500,
	})
}

func TestEngine_AppendsAfterMount(t *testing.T) {
	e := liveEngine()
	s := &fakeSurface{clientHeight: 5}
	e.Mount(s, "")

	e.Deliver("one")
	e.Deliver("two")

	if s.text != "one\ntwo\n" {
		t.Errorf("surface text = %q, want %q", s.text, "one\ntwo\n")
	}
	if e.Applied() != 2 {
		t.Errorf("Applied() = %d, want 2", e.Applied())
	}
}

func TestEngine_MountSeedsInitialText(t *testing.T) {
	e := liveEngine()
	s := &fakeSurface{clientHeight: 5}
	e.Mount(s, "from file\n")
	e.Deliver("pushed")

	if s.text != "from file\npushed\n" {
		t.Errorf("surface text = %q", s.text)
	}
}

func TestEngine_PreMountReplayInOrder(t *testing.T) {
	e := liveEngine()
	e.Deliver("a")
	e.Deliver("b")
	e.Deliver("c")

	if e.Pending() != 3 {
		t.Fatalf("Pending() = %d, want 3", e.Pending())
	}

	s := &fakeSurface{clientHeight: 5}
	e.Mount(s, "")
	e.Deliver("d")

	if s.text != "a\nb\nc\nd\n" {
		t.Errorf("surface text = %q, want %q", s.text, "a\nb\nc\nd\n")
	}
	if e.Pending() != 0 {
		t.Errorf("Pending() after mount = %d, want 0", e.Pending())
	}

	// Mounting again must not replay anything.
	e.Mount(&fakeSurface{}, "")
	if e.Applied() != 4 {
		t.Errorf("Applied() = %d, want 4", e.Applied())
	}
}

func TestEngine_SnapshotModeNeverApplies(t *testing.T) {
	e := NewEngine(Options{Gate: Gate{Mode: config.ModeSnapshot, Tailing: true}})
	e.Deliver("queued before mount")

	s := &fakeSurface{clientHeight: 5}
	e.Mount(s, "{\"a\":1}")
	e.Deliver("after mount")

	if s.text != "{\"a\":1}" {
		t.Errorf("surface text = %q, want snapshot untouched", s.text)
	}
	if e.Applied() != 0 {
		t.Errorf("Applied() = %d, want 0", e.Applied())
	}
	if e.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", e.Dropped())
	}
}

func TestEngine_HistoricalViewDropsLines(t *testing.T) {
	e := NewEngine(Options{Gate: Gate{Mode: config.ModeLive, Tailing: false}})
	e.Deliver("early")
	s := &fakeSurface{clientHeight: 5}
	e.Mount(s, "old log\n")
	e.Deliver("late")

	if s.text != "old log\n" {
		t.Errorf("surface text = %q, want %q", s.text, "old log\n")
	}
	if e.Dropped() != 2 {
		t.Errorf("Dropped() = %d, want 2", e.Dropped())
	}
}

func TestEngine_FollowPinsToBottom(t *testing.T) {
	e := liveEngine()
	s := &fakeSurface{clientHeight: 2}
	e.Mount(s, "")
	for _, l := range []string{"1", "2", "3", "4"} {
		e.Deliver(l)
	}

	// Viewport is at the bottom; the next append must pin to the new bottom.
	s.top = 2
	e.Interacted()
	if !e.Following() {
		t.Fatal("Following() = false at bottom")
	}

	e.Deliver("5")
	if s.top != s.Geometry().ScrollHeight {
		t.Errorf("top = %d, want scroll height %d", s.top, s.Geometry().ScrollHeight)
	}
}

func TestEngine_ScrolledUpIsNotYanked(t *testing.T) {
	e := liveEngine()
	s := &fakeSurface{clientHeight: 2}
	e.Mount(s, "")
	for _, l := range []string{"1", "2", "3", "4", "5", "6"} {
		e.Deliver(l)
	}

	s.top = 0
	e.Interacted()
	if e.Following() {
		t.Fatal("Following() = true after scrolling to top")
	}

	scrolls := s.scrolls
	e.Deliver("7")
	if s.top != 0 {
		t.Errorf("top = %d, want 0 (unchanged)", s.top)
	}
	if s.scrolls != scrolls {
		t.Errorf("ScrollToBottom called while not following")
	}
}

func TestEngine_EmptyLineIgnored(t *testing.T) {
	e := liveEngine()
	s := &fakeSurface{clientHeight: 2}
	e.Mount(s, "")
	e.Deliver("")

	if e.Applied() != 0 || s.text != "" {
		t.Errorf("empty line changed state: applied=%d text=%q", e.Applied(), s.text)
	}
}

func TestEngine_InteractedBeforeMount(t *testing.T) {
	e := liveEngine()
	e.Interacted() // must not panic
	if !e.Following() {
		t.Error("Following() should default to true")
	}
}

func TestEngine_SendsDeltasUntilTrim(t *testing.T) {
	e := NewEngine(Options{
		Gate:     Gate{Mode: config.ModeLive, Tailing: true},
		Capacity: 20,
		Retain:   10,
	})
	s := &fakeSurface{clientHeight: 5}
	e.Mount(s, "")
	setsAfterMount := s.sets

	e.Deliver("aaaa")
	e.Deliver("bbbb")
	if s.sets != setsAfterMount || s.appends != 2 {
		t.Errorf("under capacity: sets=%d appends=%d, want only appends", s.sets-setsAfterMount, s.appends)
	}

	e.Deliver("cccccccccccc")
	if s.sets != setsAfterMount+1 {
		t.Errorf("trim should replace the surface text once, got %d sets", s.sets-setsAfterMount)
	}
	if s.text != e.Text() {
		t.Errorf("surface text = %q, buffer = %q", s.text, e.Text())
	}
}
