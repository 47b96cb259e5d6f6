// pattern: Functional Core

// Package push delivers log lines from the server's push channel, or from a
// local log file, into a single bounded channel drained by the dashboard.
package push

import (
	"context"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// LogLine is one line of log output, in arrival order.
type LogLine struct {
	Line string
}

// Source produces log lines until ctx is cancelled.
type Source interface {
	Run(ctx context.Context, out chan<- LogLine) error
}

// Clean removes terminal control sequences and trailing line terminators.
// Any other byte, including tabs and trailing spaces, is kept as pushed.
func Clean(line string) string {
	line = strings.TrimRight(line, "\r\n")
	return ansi.Strip(line)
}

// emit blocks until the line is accepted or ctx is done.
func emit(ctx context.Context, out chan<- LogLine, line string) bool {
	select {
	case out <- LogLine{Line: Clean(line)}:
		return true
	case <-ctx.Done():
		return false
	}
}
