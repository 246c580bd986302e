package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/tweets/internal/config"
	"github.com/deppfellow/tweets/internal/errs"
	"github.com/deppfellow/tweets/internal/server"
)

func newGlobal() *GlobalMiddlewares {
	logger := zerolog.Nop()
	return NewGlobalMiddlewares(&server.Server{Config: &config.Config{}, Logger: &logger})
}

func TestGlobalErrorHandler(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid identifier", fmt.Errorf("parse id: %w", errs.ErrInvalidIdentifier), http.StatusBadRequest, errs.CodeInvalidIdentifier},
		{"not found", fmt.Errorf("tweet x: %w", errs.ErrNotFound), http.StatusNotFound, errs.CodeNotFound},
		{"store", fmt.Errorf("%w: list tweets: boom", errs.ErrStore), http.StatusBadGateway, errs.CodeStore},
		{"pool exhausted", fmt.Errorf("%w: no connection within 2s", errs.ErrPoolExhausted), http.StatusServiceUnavailable, errs.CodePoolExhausted},
		{"pg too many connections", fmt.Errorf("%w: %w", errs.ErrStore, &pgconn.PgError{Code: "53300"}), http.StatusServiceUnavailable, errs.CodePoolExhausted},
		{"http error passes through", errs.NewTooManyRequestsError("slow down"), http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
		{"echo not found", echo.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"echo method not allowed", echo.ErrMethodNotAllowed, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
		{"unknown", errors.New("kaboom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/tweets", nil), rec)

			newGlobal().GlobalErrorHandler(tt.err, c)

			assert.Equal(t, tt.status, rec.Code)

			var body errs.HTTPError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.status, body.Status)
			assert.NotContains(t, rec.Body.String(), "boom")
			assert.NotContains(t, rec.Body.String(), "kaboom")
		})
	}
}

func TestStatusFromError(t *testing.T) {
	assert.Equal(t, http.StatusBadGateway, statusFromError(fmt.Errorf("%w: x", errs.ErrStore)))
	assert.Equal(t, http.StatusTooManyRequests, statusFromError(errs.NewTooManyRequestsError("x")))
	assert.Equal(t, http.StatusMethodNotAllowed, statusFromError(echo.ErrMethodNotAllowed))
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	handler := RequestID()(func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)))
	generated := rec.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestEnhanceContext_LoggerReachesRequestContext(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.InfoLevel)
	ce := NewContextEnhancer(&server.Server{Config: &config.Config{}, Logger: &logger})

	handler := ce.EnhanceContext()(func(c echo.Context) error {
		assert.NotEqual(t, zerolog.Disabled, zerolog.Ctx(c.Request().Context()).GetLevel())
		return nil
	})

	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	require.NoError(t, handler(c))
}
