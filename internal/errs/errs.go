// Package errs defines the error types the API speaks.
//
// It holds the HTTPError shape returned to clients and the error
// kinds the store, service and handler layers use to classify a
// failure before it is mapped to a status code.
package errs
