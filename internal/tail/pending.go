// pattern: Functional Core

package tail

// PendingQueue holds lines that arrive before the surface is mounted. It is
// drained once and then retired for the rest of the session.
type PendingQueue struct {
	lines   []string
	retired bool
}

// Push queues line. It returns false once the queue has been retired.
func (q *PendingQueue) Push(line string) bool {
	if q.retired {
		return false
	}
	q.lines = append(q.lines, line)
	return true
}

// Len returns the number of queued lines.
func (q *PendingQueue) Len() int {
	return len(q.lines)
}

// Retired reports whether Drain has already run.
func (q *PendingQueue) Retired() bool {
	return q.retired
}

// Drain hands every queued line to apply in arrival order, clears the queue
// and retires it. A nil apply discards the lines. Later calls do nothing.
func (q *PendingQueue) Drain(apply func(line string)) {
	if q.retired {
		return
	}
	lines := q.lines
	q.lines = nil
	q.retired = true
	if apply == nil {
		return
	}
	for _, line := range lines {
		apply(line)
	}
}
