package middleware

import (
	"math"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/deppfellow/tweets/internal/errs"
	"github.com/deppfellow/tweets/internal/metrics"
	"github.com/deppfellow/tweets/internal/server"
)

// RateLimitMiddleware limits requests per client ip with an in-memory
// token bucket per visitor.
type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// RateLimiter allows server.rate_limit requests per second per client ip,
// with bursts of twice that. Rejected requests get a 429.
func (r *RateLimitMiddleware) RateLimiter() echo.MiddlewareFunc {
	limit := rate.Limit(r.server.Config.Server.RateLimit)

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			// Probes and scrapes must not be throttled.
			path := c.Path()
			return path == "/status" || path == "/metrics"
		},
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      limit,
				Burst:     burstFor(r.server.Config.Server.RateLimit),
				ExpiresIn: 3 * time.Minute,
			},
		),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errs.NewBadRequestError("Could not identify the client", false, nil, nil, nil)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.RecordRateLimitHit(c.Path())

			GetLogger(c).Warn().
				Str("identifier", identifier).
				Msg("rate limit exceeded")

			return errs.NewTooManyRequestsError("Rate limit exceeded")
		},
	})
}

// burstFor allows bursts of twice the per-second rate, and never fewer than
// one request, so a sub-1 rate still admits traffic.
func burstFor(perSecond float64) int {
	return max(1, int(math.Ceil(2*perSecond)))
}

// RecordRateLimitHit counts the rejection in Prometheus and New Relic.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	metrics.RateLimitHits.WithLabelValues(endpoint).Inc()

	if r.server.LoggerService != nil && r.server.LoggerService.GetApplication() != nil {
		r.server.LoggerService.GetApplication().RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint": endpoint,
		})
	}
}
