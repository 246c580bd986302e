package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/tweets/internal/config"
	"github.com/deppfellow/tweets/internal/server"
)

func newHealthHandler(probes ...probe) *HealthHandler {
	logger := zerolog.Nop()
	obs := config.DefaultObservabilityConfig()
	obs.HealthChecks.Timeout = time.Second

	s := &server.Server{
		Config: &config.Config{
			Primary:       config.Primary{Env: "test"},
			Observability: obs,
		},
		Logger: &logger,
	}

	return &HealthHandler{Handler: NewHandler(s), probes: probes}
}

func checkHealth(t *testing.T, h *HealthHandler) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/status", nil), rec)
	require.NoError(t, h.CheckHealth(c))
	return rec
}

func ok(ctx context.Context) error { return nil }

func failing(ctx context.Context) error { return errors.New("connection refused") }

func TestCheckHealth_AllHealthy(t *testing.T) {
	rec := checkHealth(t, newHealthHandler(
		probe{name: "database", required: true, check: ok},
		probe{name: "redis", check: ok},
	))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
}

func TestCheckHealth_DatabaseDown(t *testing.T) {
	rec := checkHealth(t, newHealthHandler(
		probe{name: "database", required: true, check: failing},
		probe{name: "redis", check: ok},
	))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"unhealthy"`)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestCheckHealth_RedisDownIsReportedOnly(t *testing.T) {
	rec := checkHealth(t, newHealthHandler(
		probe{name: "database", required: true, check: ok},
		probe{name: "redis", check: failing},
	))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"unreachable"`)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestCheckHealth_ProbeTimeout(t *testing.T) {
	h := newHealthHandler(probe{name: "database", required: true, check: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}})
	h.server.Config.Observability.HealthChecks.Timeout = 10 * time.Millisecond

	rec := checkHealth(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
