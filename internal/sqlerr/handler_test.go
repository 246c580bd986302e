package sqlerr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/tweets/internal/errs"
)

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestHandleError_Kinds(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid identifier", fmt.Errorf("%w: \"x\"", errs.ErrInvalidIdentifier), http.StatusBadRequest, errs.CodeInvalidIdentifier},
		{"not found", fmt.Errorf("tweet abc: %w", errs.ErrNotFound), http.StatusNotFound, errs.CodeNotFound},
		{"store", fmt.Errorf("%w: conn reset by peer", errs.ErrStore), http.StatusBadGateway, errs.CodeStore},
		{"pool exhausted", fmt.Errorf("%w: no connection within 2s", errs.ErrPoolExhausted), http.StatusServiceUnavailable, errs.CodePoolExhausted},
		{"validation", fmt.Errorf("%w: message", errs.ErrValidation), http.StatusBadRequest, errs.CodeValidation},
		{"no rows", pgx.ErrNoRows, http.StatusNotFound, "NOT_FOUND"},
		{"deadline", context.DeadlineExceeded, http.StatusBadGateway, errs.CodeStore},
		{"unknown", errors.New("kaboom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := asHTTPError(t, HandleError(tt.err))
			assert.Equal(t, tt.status, httpErr.Status)
			assert.Equal(t, tt.code, httpErr.Code)
			assert.NotContains(t, httpErr.Message, "conn reset")
			assert.NotContains(t, httpErr.Message, "kaboom")
		})
	}
}

func TestHandleError_PassesHTTPErrorThrough(t *testing.T) {
	original := errs.NewNotFoundError("Tweet not found", true, nil)
	assert.Same(t, original, HandleError(original))
}

func TestHandleError_PgErrors(t *testing.T) {
	tests := []struct {
		name    string
		pgErr   *pgconn.PgError
		status  int
		code    string
		message string
	}{
		{
			name:    "unique violation",
			pgErr:   &pgconn.PgError{Code: "23505", Severity: "ERROR", TableName: "tweets", ConstraintName: "tweets_id_key"},
			status:  http.StatusBadRequest,
			code:    "TWEET_ALREADY_EXISTS",
			message: "A Tweet with this Id already exists",
		},
		{
			name:    "not null violation",
			pgErr:   &pgconn.PgError{Code: "23502", Severity: "ERROR", TableName: "tweets", ColumnName: "message"},
			status:  http.StatusBadRequest,
			code:    "TWEET_REQUIRED",
			message: "The Message is required",
		},
		{
			name:    "foreign key violation",
			pgErr:   &pgconn.PgError{Code: "23503", Severity: "ERROR", TableName: "likes", ColumnName: "tweet_id"},
			status:  http.StatusBadRequest,
			code:    "LIKE_NOT_FOUND",
			message: "The referenced Tweet does not exist",
		},
		{
			name:   "too many connections",
			pgErr:  &pgconn.PgError{Code: "53300", Severity: "FATAL", Message: "sorry, too many clients already"},
			status: http.StatusServiceUnavailable,
			code:   errs.CodePoolExhausted,
		},
		{
			name:   "connection failure",
			pgErr:  &pgconn.PgError{Code: "08006", Severity: "FATAL", Message: "terminating connection"},
			status: http.StatusBadGateway,
			code:   errs.CodeStore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("%w: insert tweet: %w", errs.ErrStore, tt.pgErr)

			httpErr := asHTTPError(t, HandleError(wrapped))
			assert.Equal(t, tt.status, httpErr.Status)
			assert.Equal(t, tt.code, httpErr.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, httpErr.Message)
			}
			assert.NotContains(t, httpErr.Message, "SQLSTATE")
		})
	}
}

func TestMapCode(t *testing.T) {
	assert.Equal(t, UniqueViolation, MapCode("23505"))
	assert.Equal(t, ConnectionFailure, MapCode("08001"))
	assert.Equal(t, Other, MapCode("XX000"))
}

func TestErrCode(t *testing.T) {
	converted := ConvertPgError(&pgconn.PgError{Code: "23514", Severity: "ERROR"})
	assert.Equal(t, CheckViolation, ErrCode(fmt.Errorf("wrapped: %w", converted)))
	assert.Equal(t, Other, ErrCode(errors.New("plain")))
}
