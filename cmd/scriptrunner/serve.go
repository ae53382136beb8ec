package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"scriptrunner/internal/cache"
	"scriptrunner/internal/fanout"
	"scriptrunner/internal/gate"
	"scriptrunner/internal/httpapi"
	"scriptrunner/internal/interpreter"
	"scriptrunner/internal/observability"
	"scriptrunner/internal/registry"
	"scriptrunner/internal/scriptsfs"
	"scriptrunner/internal/supervisor"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the HTTP service",
	RunE:  doServe,
}

func doServe(cmd *cobra.Command, args []string) error {
	cfg := loadedConfig

	logger := observability.NewLogger(cfg.LogFormat, cfg.LogLevel)
	observability.RegisterMetrics()

	reg := registry.New()
	scanner := registry.NewScanner(cfg.ScriptsDir, cfg.Extension, cfg.ScanInterval, reg, logger)

	execCache := cache.New()
	concurrencyGate := gate.New(cfg.Concurrency)

	resolver := interpreter.NewResolver(cfg.Extension, interpreter.Spec{
		Interpreter: cfg.Interpreter,
		Flags:       cfg.InterpreterFlags,
	})
	for ext, spec := range cfg.Interpreters {
		if len(spec) == 0 {
			continue
		}
		resolver.Register(ext, interpreter.Spec{Interpreter: spec[0], Flags: spec[1:]})
	}

	sup := supervisor.New(supervisor.Config{
		ScriptsDir:       cfg.ScriptsDir,
		Extension:        cfg.Extension,
		Interpreter:      cfg.Interpreter,
		InterpreterFlags: cfg.InterpreterFlags,
		Deadline:         cfg.Deadline,
		GracePeriod:      cfg.GracePeriod,
		Resolver:         resolver,
	}, concurrencyGate, execCache, logger)

	runner := fanout.New(sup)
	store := scriptsfs.New(cfg.ScriptsDir, cfg.Extension)

	server := httpapi.New(cfg.ListenAddr, httpapi.Deps{
		Registry:    reg,
		Scanner:     scanner,
		Store:       store,
		Runner:      runner,
		Gate:        concurrencyGate,
		Cache:       execCache,
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scanCtx, stopScan := context.WithCancel(context.Background())
	defer stopScan()
	go scanner.Run(scanCtx)

	gaugeCtx, stopGauges := context.WithCancel(context.Background())
	defer stopGauges()
	go publishGauges(gaugeCtx, reg, concurrencyGate, execCache)

	logger.Info("scriptrunner starting", map[string]any{
		"listen_addr": cfg.ListenAddr,
		"scripts_dir": cfg.ScriptsDir,
		"concurrency": cfg.Concurrency,
	})

	err := server.ListenAndServe(ctx, cfg.Deadline)
	stopScan()
	logger.Info("scriptrunner stopped", nil)
	return err
}

// publishGauges periodically refreshes the registry-size, gate-utilization,
// and cache-size Prometheus gauges, since those components don't push their
// own metrics updates on every state change.
func publishGauges(ctx context.Context, reg *registry.Registry, g *gate.Gate, c *cache.Cache) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		observability.SetRegistrySize(reg.Current().Len())
		observability.SetGateUtilization(g.InUse(), g.Capacity())
		observability.SetCacheEntries(c.Len())

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
