package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	s.engine.GET("/health", s.handleHealth)
	s.engine.GET("/ready", s.handleReady)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	scripts := s.engine.Group("/scripts")
	scripts.GET("", s.handleListScripts)
	scripts.POST("", s.handleCreateScript)
	scripts.PUT("/:name", s.handleUpdateScript)
	scripts.DELETE("/:name", s.handleDeleteScript)

	s.engine.POST("/run", s.handleRunMany)
	s.engine.POST("/run/:name", s.handleRunOne)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.Status(http.StatusOK)
}

func (s *Server) handleReady(c *gin.Context) {
	select {
	case <-s.deps.Scanner.Ready():
		c.Status(http.StatusOK)
	default:
		c.Status(http.StatusServiceUnavailable)
	}
}
