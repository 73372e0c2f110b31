package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/snacktrack/assessor/internal/infrastructure/config"
	"github.com/snacktrack/assessor/pkg/healthcheck"
)

func testConfig() config.MonitoringConfig {
	return config.MonitoringConfig{
		EnableMetrics:   true,
		Host:            "127.0.0.1",
		Port:            9090,
		HealthCheckPath: "/health",
		ReadinessPath:   "/ready",
		MetricsPath:     "/metrics",
		RateLimit:       1000,
		RateBurst:       1000,
	}
}

func newTestServer(t *testing.T, cfg config.MonitoringConfig, checkers map[string]healthcheck.Checker) *Server {
	logger := zaptest.NewLogger(t)
	hc := healthcheck.New("test", logger)
	for name, c := range checkers {
		hc.Register(name, c)
	}

	reg := prometheus.NewRegistry()
	probe := prometheus.NewCounter(prometheus.CounterOpts{Name: "snacktrack_probe_total", Help: "probe"})
	reg.MustRegister(probe)
	probe.Inc()

	return NewServer(cfg, hc, reg, logger)
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestServer_Routes(t *testing.T) {
	down := healthcheck.NewCustomChecker(func(ctx context.Context) (healthcheck.Status, string, interface{}) {
		return healthcheck.StatusUnhealthy, "connection refused", nil
	})
	s := newTestServer(t, testConfig(), map[string]healthcheck.Checker{"database": down})

	rec := get(s, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(s, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")

	rec = get(s, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "snacktrack_probe_total 1")
}

func TestServer_MetricsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.EnableMetrics = false
	s := newTestServer(t, cfg, nil)

	assert.Equal(t, http.StatusNotFound, get(s, "/metrics").Code)
}

func TestServer_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = 0.001
	cfg.RateBurst = 2
	s := newTestServer(t, cfg, nil)

	assert.Equal(t, http.StatusOK, get(s, "/health").Code)
	assert.Equal(t, http.StatusOK, get(s, "/health").Code)
	rec := get(s, "/health")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}
