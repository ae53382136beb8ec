package scriptsfs

import (
	"os"
	"path/filepath"
	"testing"

	"scriptrunner/internal/domain/execution"
)

func TestCreateWritesNewScript(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, ".py")

	if err := s.Create("a.py", []byte("print(1)")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "a.py"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "print(1)" {
		t.Errorf("file contents = %q, want %q", got, "print(1)")
	}
}

func TestCreateFailsIfExists(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, ".py")

	if err := s.Create("a.py", []byte("v1")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := s.Create("a.py", []byte("v2"))
	if err == nil {
		t.Fatal("Create over an existing script should error")
	}
	if kind, ok := execution.KindOf(err); !ok || kind != execution.ScriptAlreadyExists {
		t.Errorf("error kind = %v, want ScriptAlreadyExists", kind)
	}
}

func TestCreateRejectsInvalidName(t *testing.T) {
	s := New(t.TempDir(), ".py")
	err := s.Create("../escape.py", []byte("x"))
	if err == nil {
		t.Fatal("Create with a traversal name should error")
	}
	if kind, ok := execution.KindOf(err); !ok || kind != execution.InvalidName {
		t.Errorf("error kind = %v, want InvalidName", kind)
	}
}

func TestUpdateRequiresExistingFile(t *testing.T) {
	s := New(t.TempDir(), ".py")
	err := s.Update("missing.py", []byte("x"))
	if err == nil {
		t.Fatal("Update on a missing script should error")
	}
	if kind, ok := execution.KindOf(err); !ok || kind != execution.ScriptNotFound {
		t.Errorf("error kind = %v, want ScriptNotFound", kind)
	}
}

func TestUpdateOverwritesExistingFile(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, ".py")
	if err := s.Create("a.py", []byte("v1")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Update("a.py", []byte("v2")); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, _ := os.ReadFile(filepath.Join(dir, "a.py"))
	if string(got) != "v2" {
		t.Errorf("file contents = %q, want %q", got, "v2")
	}
}

func TestDeleteRemovesExistingFile(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, ".py")
	if err := s.Create("a.py", []byte("v1")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Delete("a.py"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.py")); !os.IsNotExist(err) {
		t.Error("file should be gone after Delete")
	}
}

func TestDeleteRequiresExistingFile(t *testing.T) {
	s := New(t.TempDir(), ".py")
	err := s.Delete("missing.py")
	if err == nil {
		t.Fatal("Delete on a missing script should error")
	}
	if kind, ok := execution.KindOf(err); !ok || kind != execution.ScriptNotFound {
		t.Errorf("error kind = %v, want ScriptNotFound", kind)
	}
}

func TestCreateUpdateDeleteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, ".py")

	if err := s.Create("a.py", []byte("v1")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Delete("a.py"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("directory should be empty again, got %v", entries)
	}
}
