// pattern: Imperative Shell

package logging

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// ChannelSink implements zapcore.WriteSyncer and routes parsed log entries
// to a channel for the status bar. Writes never block the logger; when the
// channel is full the oldest entry is discarded.
type ChannelSink struct {
	entries chan LogEntry
	mu      sync.Mutex
	closed  bool
	dropped int
}

// NewChannelSink creates a new channel sink with the specified buffer size.
func NewChannelSink(bufferSize int) *ChannelSink {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &ChannelSink{
		entries: make(chan LogEntry, bufferSize),
	}
}

// Write implements io.Writer. It decodes one zap JSON record and forwards it.
func (s *ChannelSink) Write(p []byte) (int, error) {
	entry, err := parseEntry(p)
	if err != nil {
		// Unparseable records still count as written so zap does not report errors.
		return len(p), nil
	}
	if err := s.Send(entry); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Send forwards an already-built entry.
func (s *ChannelSink) Send(entry LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("write to closed channel sink")
	}

	select {
	case s.entries <- entry:
		return nil
	default:
	}

	select {
	case <-s.entries:
		s.dropped++
	default:
	}
	select {
	case s.entries <- entry:
	default:
		s.dropped++
	}
	return nil
}

// Dropped reports how many entries were discarded because the reader fell behind.
func (s *ChannelSink) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Sync implements zapcore.WriteSyncer.
func (s *ChannelSink) Sync() error {
	return nil
}

// Close closes the entries channel. Safe to call multiple times.
func (s *ChannelSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.entries)
	}
	return nil
}

// Entries returns the channel for consuming log entries.
func (s *ChannelSink) Entries() <-chan LogEntry {
	return s.entries
}

func parseEntry(data []byte) (LogEntry, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return LogEntry{}, err
	}

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     "INFO",
		Scope:     "app",
		Fields:    make(map[string]any),
	}

	if msg, ok := raw["msg"].(string); ok {
		entry.Message = msg
	}
	if level, ok := raw["level"].(string); ok {
		entry.Level = ParseLevel(level)
	}
	if logger, ok := raw["logger"].(string); ok && logger != "" {
		entry.Scope = logger
	}
	if ts, ok := raw["ts"].(float64); ok {
		sec := int64(ts)
		nsec := int64((ts - float64(sec)) * 1e9)
		entry.Timestamp = time.Unix(sec, nsec)
	}

	for _, key := range []string{"msg", "level", "logger", "ts", "caller", "stacktrace"} {
		delete(raw, key)
	}
	for k, v := range raw {
		entry.Fields[k] = v
	}

	return entry, nil
}
