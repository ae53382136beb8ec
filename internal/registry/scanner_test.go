package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"scriptrunner/internal/domain/execution"
	"scriptrunner/internal/ports"
)

func writeFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestScannerTickPopulatesRegistry(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "print('a')")
	writeFile(t, dir, "b.py", "print('b')")
	writeFile(t, dir, "ignore.txt", "not a script")
	if err := os.Mkdir(filepath.Join(dir, "subdir.py"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	reg := New()
	s := NewScanner(dir, ".py", time.Hour, reg, ports.NopLogger{})
	s.tick()

	snap := reg.Current()
	if snap.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (got %v)", snap.Len(), snap.Names())
	}
	if !snap.Has(execution.Name("a.py")) || !snap.Has(execution.Name("b.py")) {
		t.Errorf("snapshot missing expected names: %v", snap.Names())
	}
}

func TestScannerTickOnUnreadableDirNeverFatal(t *testing.T) {
	reg := New()
	s := NewScanner(filepath.Join(t.TempDir(), "does-not-exist"), ".py", time.Hour, reg, ports.NopLogger{})

	s.tick()

	select {
	case <-s.Ready():
	default:
		t.Error("Ready() should close even when the directory read fails")
	}
	if reg.Current().Len() != 0 {
		t.Error("registry should remain empty after a failed scan")
	}
}

func TestScannerRunScansImmediatelyThenOnTick(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "print('a')")

	reg := New()
	s := NewScanner(dir, ".py", 10*time.Millisecond, reg, ports.NopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	select {
	case <-s.Ready():
	case <-time.After(time.Second):
		t.Fatal("scanner never became ready")
	}

	if reg.Current().Len() != 1 {
		t.Fatalf("Len() = %d, want 1 immediately after first scan", reg.Current().Len())
	}

	writeFile(t, dir, "b.py", "print('b')")
	deadline := time.After(time.Second)
	for reg.Current().Len() != 2 {
		select {
		case <-deadline:
			t.Fatal("registry never picked up second file on tick")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	<-done
}
