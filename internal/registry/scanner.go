package registry

import (
	"context"
	"os"
	"strings"
	"time"

	"scriptrunner/internal/domain/execution"
	"scriptrunner/internal/ports"
)

// Scanner periodically rebuilds a Registry from the contents of a
// directory. It has a single state — scanning — and runs for the process
// lifetime: a failure to read the directory is logged and retried on the
// next tick, never fatal.
type Scanner struct {
	dir       string
	extension string
	interval  time.Duration
	registry  *Registry
	logger    ports.Logger

	readyOnce chan struct{}
}

// NewScanner constructs a Scanner that rebuilds registry from dir every
// interval, keeping entries whose name ends in extension.
func NewScanner(dir, extension string, interval time.Duration, registry *Registry, logger ports.Logger) *Scanner {
	if logger == nil {
		logger = ports.NopLogger{}
	}
	return &Scanner{
		dir:       dir,
		extension: extension,
		interval:  interval,
		registry:  registry,
		logger:    logger,
		readyOnce: make(chan struct{}),
	}
}

// Run blocks, scanning on every tick, until ctx is canceled. The first
// scan happens immediately rather than after the first interval elapses,
// so a freshly started service has a populated registry without waiting.
func (s *Scanner) Run(ctx context.Context) {
	s.tick()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// Ready returns a channel that closes once the first scan has completed,
// successfully or not. Used by the readiness probe.
func (s *Scanner) Ready() <-chan struct{} {
	return s.readyOnce
}

func (s *Scanner) tick() {
	defer s.markReady()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.logger.Warn("scan scripts directory failed", map[string]any{"dir": s.dir, "err": err.Error()})
		return
	}

	names := make([]execution.Name, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.HasSuffix(entry.Name(), s.extension) {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		names = append(names, execution.Name(entry.Name()))
	}

	s.registry.Publish(NewSnapshot(names))
	s.logger.Debug("scan complete", map[string]any{"dir": s.dir, "count": len(names)})
}

func (s *Scanner) markReady() {
	select {
	case <-s.readyOnce:
	default:
		close(s.readyOnce)
	}
}
