// Package observability provides the zerolog-backed logger, Gin request
// middleware, and Prometheus metrics that back the ambient stack described
// in SPEC_FULL.md section 10. It is the only package in the module that
// imports zerolog and defines Prometheus collectors (httpapi imports only
// promhttp to serve them); the execution core consumes logging through the
// narrow ports.Logger interface.
package observability

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"scriptrunner/internal/ports"
)

// Logger adapts a zerolog.Logger to ports.Logger.
type Logger struct {
	zl zerolog.Logger
}

var _ ports.Logger = Logger{}

// NewLogger builds a Logger writing to stderr. format selects "json" (the
// default, suited to log aggregation) or "console" (human-readable, for
// local development). level is a zerolog level name ("debug", "info",
// "warn", "error"); unrecognized values fall back to "info".
func NewLogger(format, level string) Logger {
	var output = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	var zl zerolog.Logger
	if format == "console" {
		zl = zerolog.New(output).With().Timestamp().Logger()
	} else {
		zl = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zl = zl.Level(lvl)

	return Logger{zl: zl}
}

// Zerolog returns the underlying zerolog.Logger, for components (like the
// Gin middleware) that want the richer event API directly.
func (l Logger) Zerolog() zerolog.Logger {
	return l.zl
}

func (l Logger) Debug(msg string, fields map[string]any) {
	l.zl.Debug().Fields(fields).Msg(msg)
}

func (l Logger) Info(msg string, fields map[string]any) {
	l.zl.Info().Fields(fields).Msg(msg)
}

func (l Logger) Warn(msg string, fields map[string]any) {
	l.zl.Warn().Fields(fields).Msg(msg)
}

func (l Logger) Error(msg string, err error, fields map[string]any) {
	l.zl.Error().Err(err).Fields(fields).Msg(msg)
}
