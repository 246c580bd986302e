package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/tweets/internal/errs"
	"github.com/deppfellow/tweets/internal/server"
	"github.com/deppfellow/tweets/internal/sqlerr"
)

// operations names each tweets route for the New Relic transaction, keyed
// by method and route template.
var operations = map[string]string{
	http.MethodGet + " /tweets":              "tweets.list",
	http.MethodPost + " /tweets":             "tweets.create",
	http.MethodGet + " /tweets/:id":          "tweets.get",
	http.MethodDelete + " /tweets/:id":       "tweets.delete",
	http.MethodGet + " /tweets/:id/likes":    "likes.list",
	http.MethodPost + " /tweets/:id/likes":   "likes.plus_one",
	http.MethodDelete + " /tweets/:id/likes": "likes.minus_one",
}

func operationFor(method, route string) string {
	return operations[method+" "+route]
}

// TracingMiddleware owns the New Relic echo middleware. nrApp is nil when
// New Relic is disabled.
type TracingMiddleware struct {
	server *server.Server
	nrApp  *newrelic.Application
}

func NewTracingMiddleware(s *server.Server, nrApp *newrelic.Application) *TracingMiddleware {
	return &TracingMiddleware{
		server: s,
		nrApp:  nrApp,
	}
}

// NewRelicMiddleware starts a transaction per request, or passes through.
func (tm *TracingMiddleware) NewRelicMiddleware() echo.MiddlewareFunc {
	if tm.nrApp == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}
	return nrecho.Middleware(tm.nrApp)
}

// EnhanceTracing tags the transaction with the tweets operation and the
// outcome. Only server-side failures (5xx) are noticed as errors; a bad
// identifier or a missing tweet is a normal answer. It must run after
// NewRelicMiddleware.
func (tm *TracingMiddleware) EnhanceTracing() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			txn := newrelic.FromContext(c.Request().Context())
			if txn == nil {
				return next(c)
			}

			txn.AddAttribute("http.real_ip", c.RealIP())
			if requestID := GetRequestID(c); requestID != "" {
				txn.AddAttribute("request.id", requestID)
			}
			if op := operationFor(c.Request().Method, c.Path()); op != "" {
				txn.AddAttribute("tweets.operation", op)
			}
			if id := c.Param("id"); id != "" {
				txn.AddAttribute("tweet.id", id)
			}

			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = statusFromError(err)
				if code := errorCode(err); code != "" {
					txn.AddAttribute("error.code", code)
				}
				if shouldNotice(status) {
					txn.NoticeError(nrpkgerrors.Wrap(err))
				}
			}
			txn.AddAttribute("http.status_code", status)

			return err
		}
	}
}

func shouldNotice(status int) bool {
	return status >= http.StatusInternalServerError
}

// errorCode is the code the client will see for err, e.g. POOL_EXHAUSTED.
func errorCode(err error) string {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) || errors.As(sqlerr.HandleError(err), &httpErr) {
		return httpErr.Code
	}
	return ""
}
