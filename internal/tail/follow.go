// pattern: Functional Core

package tail

// DefaultBottomEps is the tolerance, in lines, within which a viewport still
// counts as pinned to the bottom.
const DefaultBottomEps = 1

// Geometry is a snapshot of a scrollable viewport.
type Geometry struct {
	ScrollHeight int // total content height
	ScrollTop    int // offset of the first visible line
	ClientHeight int // visible height
}

// Surface is the display target a live tail writes to.
type Surface interface {
	// SetText replaces the displayed text.
	SetText(text string)
	// AppendLine adds one line after the displayed text, following the
	// buffer's newline rules.
	AppendLine(line string)
	// Geometry reports the current scroll position.
	Geometry() Geometry
	// ScrollToBottom pins the viewport to the newest content.
	ScrollToBottom()
}

// Follower decides whether an append should drag the viewport to the bottom.
// The follow state is re-sampled on every scroll-affecting interaction and
// only consumed at append time.
type Follower struct {
	eps       int
	following bool
}

// NewFollower returns a follower that starts pinned to the bottom.
func NewFollower(eps int) *Follower {
	if eps < 0 {
		eps = 0
	}
	return &Follower{eps: eps, following: true}
}

// IsAtBottom reports whether g is within the tolerance of the bottom edge.
func (f *Follower) IsAtBottom(g Geometry) bool {
	return g.ScrollHeight-g.ScrollTop-g.ClientHeight <= f.eps
}

// Sample recomputes the follow state from g.
func (f *Follower) Sample(g Geometry) {
	f.following = f.IsAtBottom(g)
}

// Following returns the cached follow state.
func (f *Follower) Following() bool {
	return f.following
}

// AfterAppend scrolls s to the bottom when following, and leaves it
// untouched otherwise.
func (f *Follower) AfterAppend(s Surface) {
	if s == nil || !f.following {
		return
	}
	s.ScrollToBottom()
}
