package prof

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStartWithoutProfiles(t *testing.T) {
	s, err := Start(Options{})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s.Active() {
		t.Fatalf("empty options reported active")
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestMemProfileWrittenOnStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mem.pprof")
	s, err := Start(Options{Mem: path})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("heap profile missing: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("heap profile is empty")
	}
}

func TestStartBadPath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing", "cpu.pprof")
	if _, err := Start(Options{CPU: dir}); err == nil {
		t.Fatalf("Start with an unwritable path succeeded")
	}
}
