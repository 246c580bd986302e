// Package middleware holds the echo middleware of the service: request ids,
// request-scoped logging, CORS, secure headers, rate limiting, panic
// recovery, tracing, metrics and the global error handler.
package middleware
