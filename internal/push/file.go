// pattern: Imperative Shell

package push

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"opsdash/internal/logging"
)

const defaultPollInterval = 5 * time.Second

// FileOptions tunes the file follower.
type FileOptions struct {
	// FromStart replays content already in the file when it is first opened.
	FromStart    bool
	PollInterval time.Duration
	Logger       *logging.ScopedLogger
}

// FileFollower tails a log file and emits each appended line. It watches the
// parent directory with fsnotify and polls as a safeguard for filesystems
// that do not deliver events (network mounts, bind mounts).
type FileFollower struct {
	path         string
	fromStart    bool
	pollInterval time.Duration
	logger       *logging.ScopedLogger

	file    *os.File
	offset  int64
	partial []byte
}

// NewFileFollower creates a follower for path.
func NewFileFollower(path string, opts FileOptions) *FileFollower {
	f := &FileFollower{
		path:         filepath.Clean(path),
		fromStart:    opts.FromStart,
		pollInterval: opts.PollInterval,
		logger:       opts.Logger,
	}
	if f.pollInterval <= 0 {
		f.pollInterval = defaultPollInterval
	}
	if f.logger == nil {
		f.logger = logging.NopLogger()
	}
	return f
}

// Run follows the file until ctx is cancelled.
func (f *FileFollower) Run(ctx context.Context, out chan<- LogLine) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()
	defer f.close()

	dir := filepath.Dir(f.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	if err := f.open(!f.fromStart); err == nil {
		if !f.readNew(ctx, out) {
			return nil
		}
	}

	ticker := time.NewTicker(f.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != f.path {
				continue
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				f.close()
				continue
			}
			if event.Has(fsnotify.Create) {
				f.close()
			}
			if f.file == nil {
				// A file that appears after startup is read from its beginning.
				if err := f.open(false); err != nil {
					continue
				}
			}
			if !f.readNew(ctx, out) {
				return nil
			}

		case <-ticker.C:
			if f.file == nil {
				if err := f.open(false); err != nil {
					continue
				}
			}
			if !f.readNew(ctx, out) {
				return nil
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			f.logger.Warn("file watcher error", "path", f.path, "error", err)
		}
	}
}

func (f *FileFollower) open(seekToEnd bool) error {
	if f.file != nil {
		return nil
	}
	file, err := os.Open(f.path)
	if err != nil {
		return err
	}

	var offset int64
	if seekToEnd {
		offset, err = file.Seek(0, io.SeekEnd)
		if err != nil {
			_ = file.Close()
			return err
		}
	}

	f.file = file
	f.offset = offset
	f.partial = nil
	f.logger.Debug("following log file", "path", f.path, "offset", offset)
	return nil
}

func (f *FileFollower) close() {
	if f.file != nil {
		_ = f.file.Close()
		f.file = nil
	}
	f.offset = 0
	f.partial = nil
}

// readNew emits every complete line appended since the last read. A trailing
// fragment without a newline is held until the rest arrives. It returns false
// when ctx was cancelled mid-delivery.
func (f *FileFollower) readNew(ctx context.Context, out chan<- LogLine) bool {
	if f.file == nil {
		return true
	}

	if info, err := f.file.Stat(); err == nil && info.Size() < f.offset {
		f.logger.Info("log file truncated, restarting from the beginning", "path", f.path)
		f.offset = 0
		f.partial = nil
	}

	if _, err := f.file.Seek(f.offset, io.SeekStart); err != nil {
		return true
	}
	data, err := io.ReadAll(f.file)
	if err != nil {
		f.logger.Warn("read log file", "path", f.path, "error", err)
	}
	f.offset += int64(len(data))

	data = append(f.partial, data...)
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		line := string(data[:i])
		data = data[i+1:]
		if line == "" || line == "\r" {
			continue
		}
		if !emit(ctx, out, line) {
			return false
		}
	}
	f.partial = bytes.Clone(data)
	return true
}
