// pattern: Functional Core

// Package textbuf holds the in-memory text of a live log surface and keeps it
// under a fixed size ceiling by trimming from the front.
package textbuf

import "unicode/utf8"

// Defaults used when a Buffer is built from zero or inconsistent limits.
const (
	DefaultCapacity = 200_000
	DefaultRetain   = 150_000
)

// Buffer owns the log text of one surface. It is not safe for concurrent use;
// the surface's consumer loop is its only writer.
type Buffer struct {
	text     []byte
	capacity int
	retain   int
}

// spare is the headroom allocated beyond capacity so appends of ordinary
// lines never grow the backing array.
const spare = 4096

// New creates an empty buffer. A non-positive capacity falls back to
// DefaultCapacity; retain outside (0, capacity] falls back to half the capacity.
func New(capacity, retain int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
		if retain <= 0 {
			retain = DefaultRetain
		}
	}
	if retain <= 0 || retain > capacity {
		retain = capacity / 2
		if retain == 0 {
			retain = capacity
		}
	}
	return &Buffer{
		text:     make([]byte, 0, capacity+spare),
		capacity: capacity,
		retain:   retain,
	}
}

// Append adds line plus a trailing newline. If the current text does not end
// in a newline one is inserted first. Once the text exceeds the capacity it is
// replaced by its most recent retain bytes, in place. An empty line is a
// no-op. changed reports whether the text changed and trimmed whether the
// front of the text was cut.
func (b *Buffer) Append(line string) (changed, trimmed bool) {
	if line == "" {
		return false, false
	}

	if n := len(b.text); n > 0 && b.text[n-1] != '\n' {
		b.text = append(b.text, '\n')
	}
	b.text = append(b.text, line...)
	b.text = append(b.text, '\n')

	if len(b.text) > b.capacity {
		b.trim()
		return true, true
	}
	return true, false
}

// trim moves the retained suffix to the front of the backing array.
func (b *Buffer) trim() {
	start := cut(b.text, b.retain)
	n := copy(b.text, b.text[start:])
	b.text = b.text[:n]
}

// cut returns the index where the last n bytes of p begin, moved forward to
// the next rune boundary.
func cut(p []byte, n int) int {
	if n <= 0 {
		return len(p)
	}
	if len(p) <= n {
		return 0
	}
	start := len(p) - n
	for start < len(p) && !utf8.RuneStart(p[start]) {
		start++
	}
	return start
}

// Suffix returns the last n bytes of s. The cut is moved forward to the next
// rune boundary so a multi-byte character is never split; for ASCII input the
// result is exactly n bytes.
func Suffix(s string, n int) string {
	return s[cut([]byte(s), n):]
}

// Load replaces the content with text, such as the initial content a surface
// was created with. Oversized text is trimmed to its retained suffix.
func (b *Buffer) Load(text string) {
	if len(text) > b.capacity {
		text = Suffix(text, b.retain)
	}
	b.text = append(b.text[:0], text...)
}

// Text returns a copy of the current buffer content.
func (b *Buffer) Text() string {
	return string(b.text)
}

// Len returns the content length in bytes.
func (b *Buffer) Len() int {
	return len(b.text)
}
