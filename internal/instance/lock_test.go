package instance

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLockAndCleanup(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")

	fl, err := Lock(dir)
	if err != nil {
		t.Fatalf("Lock() failed: %v", err)
	}

	pid, ok := HolderPID(dir)
	if !ok || pid != os.Getpid() {
		t.Fatalf("HolderPID() = %d, %v; want %d", pid, ok, os.Getpid())
	}

	_, err = Lock(dir)
	if err == nil {
		t.Fatal("second Lock() should have failed")
	}
	if !strings.Contains(err.Error(), "already using") {
		t.Errorf("error = %q, want mention of the running instance", err)
	}

	Cleanup(dir, fl)

	if _, err := os.Stat(filepath.Join(dir, pidFileName)); !os.IsNotExist(err) {
		t.Fatal("pid file should have been removed after Cleanup")
	}
	if _, ok := HolderPID(dir); ok {
		t.Error("HolderPID() should report nothing after Cleanup")
	}

	fl2, err := Lock(dir)
	if err != nil {
		t.Fatalf("Lock() after Cleanup should succeed: %v", err)
	}
	Cleanup(dir, fl2)
}

func TestHolderPID_Garbage(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, pidFileName), []byte("nope"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, ok := HolderPID(dir); ok {
		t.Error("HolderPID() should reject a non-numeric pid file")
	}
}
