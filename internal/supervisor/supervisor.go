// Package supervisor implements the execution core: given a script name
// and a request, it resolves the script on disk, consults the cache,
// admits through the concurrency gate, spawns a guest-language child
// process, feeds it stdin, races its exit against a wall-clock deadline,
// and reaps it.
package supervisor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"scriptrunner/internal/cache"
	"scriptrunner/internal/domain/execution"
	"scriptrunner/internal/gate"
	"scriptrunner/internal/interpreter"
	"scriptrunner/internal/ports"
)

// Config configures a Supervisor.
type Config struct {
	// ScriptsDir is the flat directory scripts are resolved against.
	ScriptsDir string
	// Extension is the required script filename suffix, e.g. ".py".
	Extension string
	// Interpreter is the guest-language binary, resolved via PATH unless
	// absolute.
	Interpreter string
	// InterpreterFlags are applied between the interpreter and the script
	// path, e.g. ["-u"] for unbuffered Python output.
	InterpreterFlags []string
	// Deadline is the wall-clock budget given to a single run.
	Deadline time.Duration
	// GracePeriod is how long the supervisor waits for a clean exit after
	// sending a terminate signal before force-killing.
	GracePeriod time.Duration
	// Resolver, if set, dispatches a script's extension to its own
	// interpreter and flags. Run validates names against Extension before
	// resolving, so other registered extensions are dispatched only when
	// Extension is empty, which lets several guest languages coexist in one
	// scripts directory. If nil, New builds one from Interpreter,
	// InterpreterFlags, and Extension.
	Resolver *interpreter.Resolver
}

// Supervisor is the execution core described above. It is safe for
// concurrent use.
type Supervisor struct {
	cfg    Config
	gate   *gate.Gate
	cache  *cache.Cache
	logger ports.Logger

	spawnCount atomic.Int64
}

// New constructs a Supervisor. gate bounds concurrent children; cache
// memoizes successful runs.
func New(cfg Config, g *gate.Gate, c *cache.Cache, logger ports.Logger) *Supervisor {
	if cfg.Deadline <= 0 {
		cfg.Deadline = 30 * time.Second
	}
	if cfg.GracePeriod <= 0 {
		cfg.GracePeriod = time.Second
	}
	if cfg.Interpreter == "" {
		cfg.Interpreter = "python3"
	}
	if cfg.Resolver == nil {
		cfg.Resolver = interpreter.NewResolver(cfg.Extension, interpreter.Spec{
			Interpreter: cfg.Interpreter,
			Flags:       cfg.InterpreterFlags,
		})
	}
	if logger == nil {
		logger = ports.NopLogger{}
	}
	return &Supervisor{cfg: cfg, gate: g, cache: c, logger: logger}
}

// SpawnCount returns the number of child processes started since
// construction. Exposed for tests verifying cache hits don't spawn.
func (s *Supervisor) SpawnCount() int64 {
	return s.spawnCount.Load()
}

// Run resolves name, serves a cache hit if one applies, and otherwise
// admits through the gate and executes the script, returning its result.
func (s *Supervisor) Run(ctx context.Context, name execution.Name, req execution.Request) (execution.Result, error) {
	if err := name.Validate(s.cfg.Extension); err != nil {
		return execution.Result{}, err
	}

	scriptPath := filepath.Join(s.cfg.ScriptsDir, name.String())
	info, err := os.Stat(scriptPath)
	if err != nil {
		return execution.Result{}, &execution.Error{Kind: execution.ScriptNotFound, Message: fmt.Sprintf("script %q not found", name)}
	}
	if !info.Mode().IsRegular() {
		return execution.Result{}, &execution.Error{Kind: execution.ScriptNotFound, Message: fmt.Sprintf("script %q is not a regular file", name)}
	}

	key, err := execution.NewKey(name, info.ModTime().UnixNano(), req)
	if err != nil {
		return execution.Result{}, err
	}

	if cached, ok := s.cache.Lookup(key); ok {
		s.logger.Debug("cache hit", map[string]any{"script": name.String()})
		return cached, nil
	}

	if err := s.gate.Acquire(ctx); err != nil {
		return execution.Result{}, err
	}
	defer s.gate.Release()

	result, err := s.exec(ctx, scriptPath, req)
	if err != nil {
		return execution.Result{}, err
	}

	if result.Succeeded() {
		s.cache.Insert(key, result)
	}

	return result, nil
}

func (s *Supervisor) exec(ctx context.Context, scriptPath string, req execution.Request) (execution.Result, error) {
	spec, err := s.cfg.Resolver.Resolve(scriptPath)
	if err != nil {
		return execution.Result{}, &execution.Error{Kind: execution.SpawnFailed, Message: err.Error()}
	}

	cmd := exec.Command(spec.Interpreter, spec.Args(scriptPath, req.Args)...)
	cmd.Env = os.Environ()

	data := req.Data
	if len(data) == 0 {
		data = []byte("null")
	}
	cmd.Stdin = bytes.NewReader(data)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return execution.Result{}, &execution.Error{Kind: execution.SpawnFailed, Message: "spawn interpreter: " + err.Error()}
	}
	s.spawnCount.Add(1)
	s.logger.Debug("spawned child", map[string]any{"pid": cmd.Process.Pid, "path": scriptPath})

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	timedOut := s.race(ctx, cmd, done)

	exitCode := -1
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}

	return execution.Result{
		Stdout:   toValidUTF8(stdout.Bytes()),
		Stderr:   toValidUTF8(stderr.Bytes()),
		ExitCode: exitCode,
		TimedOut: timedOut,
	}, nil
}

// race waits for the child to exit, a deadline, or caller cancellation,
// whichever happens first, and reaps the process before returning so the
// gate permit is only released once the child is fully gone.
func (s *Supervisor) race(ctx context.Context, cmd *exec.Cmd, done <-chan error) (timedOut bool) {
	deadline := time.NewTimer(s.cfg.Deadline)
	defer deadline.Stop()

	select {
	case <-done:
		return false
	case <-ctx.Done():
		s.terminate(cmd, done, 0)
		return false
	case <-deadline.C:
		s.logger.Warn("script exceeded deadline", map[string]any{"pid": cmd.Process.Pid})
		s.terminate(cmd, done, s.cfg.GracePeriod)
		return true
	}
}

// terminate sends SIGTERM, waits up to grace for a clean exit, and
// force-kills if the process is still alive. It always blocks until the
// Wait goroutine reports the process reaped.
func (s *Supervisor) terminate(cmd *exec.Cmd, done <-chan error, grace time.Duration) {
	_ = cmd.Process.Signal(syscall.SIGTERM)

	if grace > 0 {
		graceTimer := time.NewTimer(grace)
		defer graceTimer.Stop()

		select {
		case <-done:
			return
		case <-graceTimer.C:
		}
	}

	_ = cmd.Process.Kill()
	<-done
}

// toValidUTF8 decodes b as UTF-8, replacing invalid sequences with the
// Unicode replacement character, per the ExecutionResult contract.
func toValidUTF8(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
