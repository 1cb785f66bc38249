// Package server exposes RRT* planning over HTTP.
//
// One-shot plans go through POST /route. Long-running plans are sessions:
// a client creates one, advances it step by step or to completion, and polls
// its tree for drawing. Each session owns a single planner guarded by its own
// mutex, so requests against one session are serialized while different
// sessions run in parallel.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"rrtstar-planner/internal/config"
	"rrtstar-planner/internal/obstacle"
	"rrtstar-planner/internal/rrtstar"
)

var (
	// ErrPlanNotFound is returned for an unknown session id
	ErrPlanNotFound = errors.New("plan not found")

	// ErrTooManySessions is returned when the session limit is reached
	ErrTooManySessions = errors.New("too many planning sessions")

	// ErrBudgetTooLarge is returned when a request asks for more planner
	// iterations than the server allows
	ErrBudgetTooLarge = errors.New("planner budget too large")
)

// Server holds the planning sessions and the HTTP routes
type Server struct {
	cfg        config.ServerConfig
	plannerCfg rrtstar.Config
	field      obstacle.Field
	logger     *zap.SugaredLogger

	registry       *prometheus.Registry
	plannerMetrics *rrtstar.Metrics
	metrics        *metrics

	sessionsMu sync.RWMutex
	sessions   map[uuid.UUID]*session

	engine *gin.Engine
}

// New creates a server. field is the default obstacle map and may be nil.
func New(cfg config.Config, field obstacle.Field, logger *zap.SugaredLogger) *Server {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	registry := prometheus.NewRegistry()
	s := &Server{
		cfg:            cfg.Server,
		plannerCfg:     cfg.Planner,
		field:          field,
		logger:         logger,
		registry:       registry,
		plannerMetrics: rrtstar.NewMetrics(registry),
		metrics:        newMetrics(registry),
		sessions:       make(map[uuid.UUID]*session),
	}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Registry returns the Prometheus registry served on /metrics
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	if s.cfg.CORS {
		r.Use(corsMiddleware())
	}

	r.GET("/health", s.handleHealth)
	r.POST("/route", s.handleRoute)

	plans := r.Group("/plans")
	plans.POST("", s.handleCreatePlan)
	plans.GET("/:id", s.handleGetPlan)
	plans.POST("/:id/step", s.handleStepPlan)
	plans.POST("/:id/run", s.handleRunPlan)
	plans.GET("/:id/tree", s.handleGetTree)
	plans.DELETE("/:id", s.handleDeletePlan)

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	return r
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infow("planning service listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Infow("shutting down planning service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
