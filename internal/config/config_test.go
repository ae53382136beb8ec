package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, suffix := range []string{
		"LISTEN_ADDR", "SCRIPTS_DIR", "EXTENSION", "SCAN_INTERVAL",
		"DEADLINE", "GRACE_PERIOD", "CONCURRENCY", "INTERPRETER",
		"LOG_LEVEL", "LOG_FORMAT",
	} {
		os.Unsetenv(envPrefix + suffix)
	}
}

func TestLoadWithNoFileReturnsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if cfg.ListenAddr != want.ListenAddr || cfg.Concurrency != want.Concurrency || cfg.Interpreter != want.Interpreter {
		t.Errorf("Load without a file = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "scriptrunner.toml")
	contents := `
listen_addr = ":9090"
concurrency = 8
scan_interval = "10s"
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":9090" {
		t.Errorf("ListenAddr = %q, want :9090", cfg.ListenAddr)
	}
	if cfg.Concurrency != 8 {
		t.Errorf("Concurrency = %d, want 8", cfg.Concurrency)
	}
	if cfg.ScanInterval != 10*time.Second {
		t.Errorf("ScanInterval = %s, want 10s", cfg.ScanInterval)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	defer clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "scriptrunner.toml")
	if err := os.WriteFile(path, []byte(`listen_addr = ":9090"`), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	os.Setenv(envPrefix+"LISTEN_ADDR", ":7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":7070" {
		t.Errorf("ListenAddr = %q, want env override :7070", cfg.ListenAddr)
	}
}

func TestEnvConcurrencyIgnoresInvalidValue(t *testing.T) {
	clearEnv(t)
	defer clearEnv(t)

	os.Setenv(envPrefix+"CONCURRENCY", "not-a-number")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Concurrency != Default().Concurrency {
		t.Errorf("Concurrency = %d, want default %d for an invalid override", cfg.Concurrency, Default().Concurrency)
	}
}
