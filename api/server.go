// Package api is the HTTP surface. It is only responsible for input
// ingestion, service orchestration, and output serialization; all
// domain logic lives in the core packages.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solarquote/adapters/refdata"
	"solarquote/core/estimate"
	"solarquote/internal/config"
	"solarquote/internal/logging"
)

// Server wires the router and its collaborators.
type Server struct {
	engine    *gin.Engine
	addr      string
	store     *refdata.Store
	estimates *estimate.Service
	version   string
}

// NewServer builds the API server and registers all routes.
func NewServer(cfg config.ServerConfig, store *refdata.Store, estimates *estimate.Service, version string) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestID(), requestLog())
	engine.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	s := &Server{
		engine:    engine,
		addr:      cfg.Addr,
		store:     store,
		estimates: estimates,
		version:   version,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	v1 := s.engine.Group("/api/v1")

	v1.GET("/health", s.handleHealth)
	v1.GET("/rate-plans", s.handleListPlans)
	v1.GET("/panels", s.handleListPanels)
	v1.GET("/batteries", s.handleListBatteries)

	v1.POST("/estimate", s.handleEstimate)
	v1.POST("/commercial", s.handleCommercial)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is canceled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("api server listening", zap.String("addr", s.addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	logging.Info("api server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	all := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			all = true
		}
	}
	if all {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	c.AllowHeaders = []string{"Content-Type", "Accept", "Origin", "Authorization", "X-Request-ID"}
	c.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	c.MaxAge = 12 * time.Hour
	return c
}
