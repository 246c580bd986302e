package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/tweets/internal/metrics"
)

// Metrics records request counts and latency per route template. Unmatched
// routes share one label so random paths cannot blow up cardinality.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}

			status := c.Response().Status
			if err != nil {
				status = statusFromError(err)
			}

			metrics.HTTPRequestsTotal.WithLabelValues(
				c.Request().Method, path, strconv.Itoa(status),
			).Inc()

			metrics.HTTPRequestDuration.WithLabelValues(
				c.Request().Method, path,
			).Observe(time.Since(start).Seconds())

			return err
		}
	}
}
