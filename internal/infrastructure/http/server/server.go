// Package server provides the operational HTTP server exposing health,
// readiness and Prometheus metrics endpoints
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/time/rate"

	"github.com/snacktrack/assessor/internal/infrastructure/config"
	"github.com/snacktrack/assessor/pkg/healthcheck"
)

// Server represents the operational HTTP server
type Server struct {
	config   config.MonitoringConfig
	logger   *zap.Logger
	health   *healthcheck.HealthCheck
	gatherer prometheus.Gatherer
	router   *chi.Mux
	server   *http.Server
}

// NewServer creates a new server instance
func NewServer(
	cfg config.MonitoringConfig,
	health *healthcheck.HealthCheck,
	gatherer prometheus.Gatherer,
	logger *zap.Logger,
) *Server {
	s := &Server{
		config:   cfg,
		logger:   logger.Named("ops-server"),
		health:   health,
		gatherer: gatherer,
	}
	s.router = s.setupRouter()

	s.server = &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, fmt.Sprint(cfg.Port)),
		Handler:           otelhttp.NewHandler(s.router, "ops"),
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}
	return s
}

// setupRouter configures the HTTP router with middleware and routes
func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(rateLimit(rate.NewLimiter(rate.Limit(s.config.RateLimit), s.config.RateBurst)))

	r.Get(s.config.HealthCheckPath, s.health.LivenessHandler())
	r.Get(s.config.ReadinessPath, s.health.ReadinessHandler())
	if s.config.EnableMetrics {
		r.Handle(s.config.MetricsPath, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{
			ErrorLog: zap.NewStdLog(s.logger),
		}))
	}
	return r
}

// Handler returns the instrumented root handler
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start binds the listener and serves in the background
func (s *Server) Start() error {
	if err := http2.ConfigureServer(s.server, nil); err != nil {
		s.logger.Error("Failed to configure HTTP/2", zap.Error(err))
	}

	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}

	s.logger.Info("Starting ops server", zap.String("address", ln.Addr().String()))
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Ops server stopped", zap.Error(err))
		}
	}()
	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down ops server")
	return s.server.Shutdown(ctx)
}
