// Package sqlerr turns database driver errors and store error kinds into
// API errors.
//
// It classifies PostgreSQL SQLSTATE codes (e.g. a unique violation becomes
// a 400 with a readable message) and maps the errs kinds raised by the
// repositories to their HTTP status.
package sqlerr
