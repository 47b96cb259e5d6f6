// pattern: Functional Core

package tail

import "opsdash/internal/config"

// Gate decides whether push traffic may touch the buffer: only a live-mode
// surface that is currently tailing accepts lines.
type Gate struct {
	Mode    config.ViewMode
	Tailing bool
}

// Allows reports whether a pushed line should be applied.
func (g Gate) Allows() bool {
	return g.Mode == config.ModeLive && g.Tailing
}
