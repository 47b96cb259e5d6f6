// pattern: Imperative Shell

// Package instance guards the dashboard's data directory and talks to the
// server instance it monitors.
package instance

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
)

const (
	lockFileName = "opsdash.lock"
	pidFileName  = "opsdash.pid"
)

// Lock takes the data directory's exclusive lock so two dashboards never
// share a log file. The holder's PID is recorded next to the lock; callers
// must defer Cleanup.
func Lock(dataDir string) (*flock.Flock, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	fl := flock.New(filepath.Join(dataDir, lockFileName))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		if pid, ok := HolderPID(dataDir); ok {
			return nil, fmt.Errorf("another opsdash instance (pid %d) is already using %s", pid, dataDir)
		}
		return nil, fmt.Errorf("another opsdash instance is already using %s", dataDir)
	}

	pidPath := filepath.Join(dataDir, pidFileName)
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getpid())), 0600); err != nil {
		_ = fl.Unlock()
		return nil, fmt.Errorf("failed to write pid file: %w", err)
	}
	return fl, nil
}

// HolderPID reads the PID recorded by the current lock holder.
func HolderPID(dataDir string) (int, bool) {
	data, err := os.ReadFile(filepath.Join(dataDir, pidFileName))
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

// Cleanup removes the pid file and releases the lock.
func Cleanup(dataDir string, fl *flock.Flock) {
	_ = os.Remove(filepath.Join(dataDir, pidFileName))
	if fl != nil {
		_ = fl.Unlock()
	}
}
