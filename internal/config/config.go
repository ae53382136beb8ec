// Package config loads service configuration from, in increasing
// precedence, compiled-in defaults, an optional TOML file, environment
// variables, and CLI flags.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

const envPrefix = "SCRIPTRUNNER_"

// Config holds everything the serve command needs to start the service.
type Config struct {
	ListenAddr       string              `toml:"listen_addr"`
	ScriptsDir       string              `toml:"scripts_dir"`
	Extension        string              `toml:"extension"`
	ScanInterval     time.Duration       `toml:"-"`
	Deadline         time.Duration       `toml:"-"`
	GracePeriod      time.Duration       `toml:"-"`
	Concurrency      int                 `toml:"concurrency"`
	Interpreter      string              `toml:"interpreter"`
	InterpreterFlags []string            `toml:"interpreter_flags"`
	// Interpreters optionally registers additional guest languages beyond
	// the default, keyed by file extension (e.g. ".rb"). Each entry is an
	// array whose first element is the interpreter and whose remaining
	// elements are its flags: [interpreter, flag, flag, ...]. Script names
	// are still validated against Extension and the scanner lists only
	// names ending in it, so an entry here is reached only when Extension
	// is empty.
	Interpreters map[string][]string `toml:"interpreters"`
	LogLevel     string               `toml:"log_level"`
	LogFormat    string               `toml:"log_format"`
	CORSOrigins  []string             `toml:"cors_origins"`

	ScanIntervalRaw string `toml:"scan_interval"`
	DeadlineRaw     string `toml:"deadline"`
	GracePeriodRaw  string `toml:"grace_period"`
}

// Default returns the compiled-in defaults described in SPEC_FULL.md §6
// and §10.1.
func Default() Config {
	return Config{
		ListenAddr:       ":8080",
		ScriptsDir:       "./scripts",
		Extension:        ".py",
		ScanInterval:     5 * time.Second,
		Deadline:         30 * time.Second,
		GracePeriod:      time.Second,
		Concurrency:      4,
		Interpreter:      "python3",
		InterpreterFlags: []string{"-u"},
		LogLevel:         "info",
		LogFormat:        "json",
		CORSOrigins:      []string{"*"},
	}
}

// Load builds a Config starting from Default, layering in an optional
// TOML file at path (if it exists) and then environment variables.
// Command-line flags are applied by the caller afterward, since Cobra owns
// flag parsing.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return Config{}, err
			}
		}
	}

	applyDurationOverride(&cfg.ScanInterval, cfg.ScanIntervalRaw)
	applyDurationOverride(&cfg.Deadline, cfg.DeadlineRaw)
	applyDurationOverride(&cfg.GracePeriod, cfg.GracePeriodRaw)

	cfg.applyEnv()

	return cfg, nil
}

func applyDurationOverride(dst *time.Duration, raw string) {
	if raw == "" {
		return
	}
	if d, err := time.ParseDuration(raw); err == nil {
		*dst = d
	}
}

func (c *Config) applyEnv() {
	if v, ok := lookupEnv("LISTEN_ADDR"); ok {
		c.ListenAddr = v
	}
	if v, ok := lookupEnv("SCRIPTS_DIR"); ok {
		c.ScriptsDir = v
	}
	if v, ok := lookupEnv("EXTENSION"); ok {
		c.Extension = v
	}
	if v, ok := lookupEnv("SCAN_INTERVAL"); ok {
		applyDurationOverride(&c.ScanInterval, v)
	}
	if v, ok := lookupEnv("DEADLINE"); ok {
		applyDurationOverride(&c.Deadline, v)
	}
	if v, ok := lookupEnv("GRACE_PERIOD"); ok {
		applyDurationOverride(&c.GracePeriod, v)
	}
	if v, ok := lookupEnv("CONCURRENCY"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Concurrency = n
		}
	}
	if v, ok := lookupEnv("INTERPRETER"); ok {
		c.Interpreter = v
	}
	if v, ok := lookupEnv("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookupEnv("LOG_FORMAT"); ok {
		c.LogFormat = v
	}
}

func lookupEnv(suffix string) (string, bool) {
	v := os.Getenv(envPrefix + suffix)
	return v, v != ""
}
