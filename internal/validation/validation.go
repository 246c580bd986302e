// Package validation binds request data and validates it with the
// go-playground validator, turning failures into field errors the client
// can read.
package validation
