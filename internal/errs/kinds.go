package errs

import (
	"errors"
)

// Error kinds shared by the codec, the repositories and the services.
// Lower layers wrap them (fmt.Errorf("...: %w", ErrStore)) and the HTTP
// layer turns them into an HTTPError with FromKind.
var (
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrNotFound          = errors.New("not found")
	ErrStore             = errors.New("store error")
	ErrPoolExhausted     = errors.New("connection pool exhausted")
	ErrValidation        = errors.New("validation error")
)

const (
	CodeInvalidIdentifier = "INVALID_IDENTIFIER"
	CodeNotFound          = "NOT_FOUND"
	CodeStore             = "STORE_ERROR"
	CodePoolExhausted     = "POOL_EXHAUSTED"
	CodeValidation        = "VALIDATION_ERROR"
)

// FromKind maps an error carrying one of the kinds above to its HTTPError.
// The second return value is false when err carries no known kind.
//
// PoolExhausted is checked before Store: an exhausted pool is reported as
// unavailable even when it was wrapped as a store failure.
func FromKind(err error) (*HTTPError, bool) {
	var code string

	switch {
	case errors.Is(err, ErrInvalidIdentifier):
		code = CodeInvalidIdentifier
		return NewBadRequestError("The identifier is not a valid UUID", true, &code, nil, nil), true

	case errors.Is(err, ErrValidation):
		code = CodeValidation
		return NewBadRequestError("Validation failed", true, &code, nil, nil), true

	case errors.Is(err, ErrNotFound):
		code = CodeNotFound
		return NewNotFoundError("Resource not found", true, &code), true

	case errors.Is(err, ErrPoolExhausted):
		code = CodePoolExhausted
		return NewServiceUnavailableError("The service is busy, try again later", &code), true

	case errors.Is(err, ErrStore):
		code = CodeStore
		return NewBadGatewayError("The data store could not complete the request", &code), true
	}

	return nil, false
}
