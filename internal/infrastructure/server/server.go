package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/api/middleware"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/domain/dispatch"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/domain/lifecycle"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/infrastructure/resilience"
)

const shutdownTimeout = 5 * time.Second

// Server is the diagnostics HTTP server
type Server struct {
	router   *gin.Engine
	dispatch *dispatch.Router
	services []*lifecycle.Service
	breakers *resilience.Group
	metrics  *monitoring.Metrics
	gatherer prometheus.Gatherer
	logger   *zap.Logger
	config   config.MetricsConfig
	started  time.Time
}

// NewServer creates a diagnostics server over the dispatch router and the
// services it reports on.
func NewServer(cfg config.MetricsConfig, router *dispatch.Router, services []*lifecycle.Service) *Server {
	return &Server{
		dispatch: router,
		services: services,
		gatherer: prometheus.DefaultGatherer,
		logger:   zap.NewNop(),
		config:   cfg,
		started:  time.Now(),
	}
}

// WithLogger sets the logger
func (s *Server) WithLogger(logger *zap.Logger) *Server {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithMetrics sets the collector and the gatherer served on /metrics
func (s *Server) WithMetrics(metrics *monitoring.Metrics, gatherer prometheus.Gatherer) *Server {
	s.metrics = metrics
	if gatherer != nil {
		s.gatherer = gatherer
	}
	return s
}

// WithBreakers reports the launch breakers of g on /launchers
func (s *Server) WithBreakers(g *resilience.Group) *Server {
	s.breakers = g
	return s
}

// Handler builds the router on first use and returns it
func (s *Server) Handler() http.Handler {
	if s.router == nil {
		s.router = s.routes()
	}
	return s.router
}

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(monitoring.Middleware(s.metrics))
	router.Use(middleware.CORS(s.config.CORSOrigins))
	rl := middleware.DefaultRateLimitConfig()
	rl.RequestsPerSecond = s.config.RateLimit
	rl.Burst = s.config.RateBurst
	router.Use(middleware.RateLimit(rl))

	router.GET("/health", s.health)
	router.GET("/providers", s.providers)
	router.GET("/providers/:family", s.family)
	router.GET("/launchers", s.launchers)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	return router
}

// Run serves until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting diagnostics server", zap.String("addr", s.config.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("diagnostics server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("Shutting down diagnostics server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down diagnostics server: %w", err)
	}
	return nil
}
