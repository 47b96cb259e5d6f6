// pattern: Imperative Shell

// Package tail drives a live log surface: it gates pushed lines by view mode,
// queues lines that arrive before the surface exists, appends them to a
// bounded buffer and keeps the viewport pinned while the reader follows.
package tail

import (
	"opsdash/internal/config"
	"opsdash/internal/logging"
	"opsdash/internal/textbuf"
)

// Options configure an Engine.
type Options struct {
	Gate      Gate
	Capacity  int // buffer ceiling in bytes
	Retain    int // bytes kept by a trim
	BottomEps int // follow tolerance in lines
	Logger    *logging.ScopedLogger
}

// Engine owns the state of one live surface. It is not safe for concurrent
// use: a single consumer feeds it lines and interaction events.
type Engine struct {
	gate    Gate
	buf     *textbuf.Buffer
	follow  *Follower
	pending PendingQueue
	surface Surface
	logger  *logging.ScopedLogger

	applied int
	dropped int
}

// NewEngine creates an engine with no mounted surface.
func NewEngine(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Engine{
		gate:   opts.Gate,
		buf:    textbuf.New(opts.Capacity, opts.Retain),
		follow: NewFollower(opts.BottomEps),
		logger: logger,
	}
}

// Deliver handles one pushed line. Before mount the line is queued; after
// mount it is applied only if the gate allows it.
func (e *Engine) Deliver(line string) {
	if e.surface == nil {
		if e.pending.Push(line) {
			return
		}
	}
	e.deliverGated(line)
}

func (e *Engine) deliverGated(line string) {
	if !e.gate.Allows() {
		e.dropped++
		e.logger.Debug("dropped pushed line", "mode", e.gate.Mode, "tailing", e.gate.Tailing)
		return
	}
	e.apply(line)
}

func (e *Engine) apply(line string) {
	changed, trimmed := e.buf.Append(line)
	if !changed {
		return
	}
	e.applied++
	if e.surface == nil {
		return
	}
	if trimmed {
		e.surface.SetText(e.buf.Text())
	} else {
		e.surface.AppendLine(line)
	}
	e.follow.AfterAppend(e.surface)
}

// Mount attaches the display surface, seeds it with the text it already
// shows and, in live mode, replays queued lines in arrival order. The queue is
// retired afterwards. Mounting twice is a no-op.
func (e *Engine) Mount(s Surface, initial string) {
	if e.surface != nil || s == nil {
		return
	}
	e.surface = s
	e.buf.Load(initial)
	s.SetText(e.buf.Text())
	s.ScrollToBottom()

	queued := e.pending.Len()
	if e.gate.Mode == config.ModeLive {
		e.pending.Drain(e.deliverGated)
	} else {
		e.pending.Drain(nil)
	}
	if queued > 0 {
		e.logger.Debug("replayed pre-mount lines", "count", queued, "mode", e.gate.Mode)
	}
}

// Interacted re-samples the follow state after a scroll, wheel, key or
// resize event on the surface.
func (e *Engine) Interacted() {
	if e.surface == nil {
		return
	}
	e.follow.Sample(e.surface.Geometry())
}

// Following reports whether new lines will pin the viewport to the bottom.
func (e *Engine) Following() bool {
	return e.follow.Following()
}

// Mounted reports whether a surface is attached.
func (e *Engine) Mounted() bool {
	return e.surface != nil
}

// Gate returns the engine's mode gate.
func (e *Engine) Gate() Gate {
	return e.gate
}

// Text returns the buffered text.
func (e *Engine) Text() string {
	return e.buf.Text()
}

// Applied returns how many lines reached the buffer.
func (e *Engine) Applied() int {
	return e.applied
}

// Dropped returns how many lines the gate rejected.
func (e *Engine) Dropped() int {
	return e.dropped
}

// Pending returns how many lines wait for the surface.
func (e *Engine) Pending() int {
	return e.pending.Len()
}
