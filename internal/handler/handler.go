// Package handler is the HTTP layer after the router.
//
// Handlers bind and validate requests with the validation package, parse
// path identifiers, call the services and write the response. Errors are
// returned untouched to the global error handler.
package handler
