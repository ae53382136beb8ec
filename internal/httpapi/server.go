// Package httpapi is the Gin-backed HTTP transport for the service
// described in SPEC_FULL.md section 6. It is a thin adapter: every
// handler validates its input, calls into the execution core, and maps
// the result (or error) onto the wire format and status code.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"scriptrunner/internal/cache"
	"scriptrunner/internal/fanout"
	"scriptrunner/internal/gate"
	"scriptrunner/internal/observability"
	"scriptrunner/internal/registry"
	"scriptrunner/internal/scriptsfs"
)

// Deps are the collaborators a Server adapts transport onto.
type Deps struct {
	Registry   *registry.Registry
	Scanner    *registry.Scanner
	Store      *scriptsfs.Store
	Runner     *fanout.Runner
	Gate       *gate.Gate
	Cache      *cache.Cache
	Logger     observability.Logger
	CORSOrigins []string
}

// Server wraps a configured Gin engine plus the net/http.Server driving
// it, with graceful shutdown.
type Server struct {
	engine *gin.Engine
	http   *http.Server
	deps   Deps
}

// New builds a Server listening on addr, with routes registered per §6
// and the observability endpoints from §10.5.
func New(addr string, deps Deps) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(observability.RequestID())
	engine.Use(observability.RequestLogger(deps.Logger.Zerolog()))
	engine.Use(observability.RequestMetrics())
	engine.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins(deps.CORSOrigins),
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders: []string{"Origin", "Content-Type", "X-Request-ID"},
		MaxAge:       12 * time.Hour,
	}))

	s := &Server{engine: engine, deps: deps}
	s.registerRoutes()

	s.http = &http.Server{
		Addr:    addr,
		Handler: engine,
	}
	return s
}

// Handler exposes the underlying http.Handler, chiefly for tests driving
// the server with httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe blocks serving HTTP until ctx is canceled, then drains
// in-flight requests for up to drain before forcing shutdown.
func (s *Server) ListenAndServe(ctx context.Context, drain time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), drain)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		_ = s.http.Close()
		return err
	}
	return <-errCh
}

func corsOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
