package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/tweets/internal/middleware"
	"github.com/deppfellow/tweets/internal/server"
)

// probe checks one dependency. A failing required probe makes the service
// unhealthy; an optional one is only reported.
type probe struct {
	name     string
	required bool
	check    func(ctx context.Context) error
}

// HealthHandler serves /status for load balancers and uptime monitors.
type HealthHandler struct {
	Handler
	probes []probe
}

// NewHealthHandler probes the dependencies listed in
// observability.health_checks.checks. Redis only backs the like purge job,
// so its failure is reported without failing the check.
func NewHealthHandler(s *server.Server) *HealthHandler {
	h := &HealthHandler{Handler: NewHandler(s)}

	obs := s.Config.Observability
	if obs == nil || !obs.HealthChecks.Enabled {
		return h
	}

	if obs.HasCheck("database") && s.DB != nil {
		h.probes = append(h.probes, probe{name: "database", required: true, check: s.DB.Ping})
	}
	if obs.HasCheck("redis") && s.Redis != nil {
		h.probes = append(h.probes, probe{name: "redis", check: func(ctx context.Context) error {
			return s.Redis.Ping(ctx).Err()
		}})
	}

	return h
}

func (h *HealthHandler) timeout() time.Duration {
	if obs := h.server.Config.Observability; obs != nil && obs.HealthChecks.Timeout > 0 {
		return obs.HealthChecks.Timeout
	}
	return 5 * time.Second
}

// CheckHealth answers 200 when every required probe passes and 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]interface{}, len(h.probes))
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}
	isHealthy := true

	for _, p := range h.probes {
		ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout())
		probeStart := time.Now()
		err := p.check(ctx)
		cancel()
		elapsed := time.Since(probeStart)

		if err != nil {
			checks[p.name] = map[string]interface{}{
				"status":        "unhealthy",
				"response_time": elapsed.String(),
				"error":         "unreachable",
			}
			if p.required {
				isHealthy = false
			}

			logger.Error().
				Err(err).
				Str("check", p.name).
				Dur("response_time", elapsed).
				Msg("health check failed")

			h.recordFailure(p.name, elapsed, err)
			continue
		}

		checks[p.name] = map[string]interface{}{
			"status":        "healthy",
			"response_time": elapsed.String(),
		}

		logger.Debug().
			Str("check", p.name).
			Dur("response_time", elapsed).
			Msg("health check passed")
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("service unhealthy")

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

// recordFailure sends a HealthCheckError custom event to New Relic when enabled.
func (h *HealthHandler) recordFailure(check string, elapsed time.Duration, err error) {
	if h.server.LoggerService == nil || h.server.LoggerService.GetApplication() == nil {
		return
	}

	h.server.LoggerService.GetApplication().RecordCustomEvent(
		"HealthCheckError",
		map[string]interface{}{
			"check_type":       check,
			"operation":        "health_check",
			"error_type":       check + "_unhealthy",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		},
	)
}
