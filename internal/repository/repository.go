// Package repository holds the SQL for tweets and likes.
//
// Every method leases a single pooled connection through
// database.WithConn and wraps failures in the errs kinds.
package repository

import (
	"errors"
	"fmt"

	"github.com/deppfellow/tweets/internal/errs"
)

// storeErr wraps err as errs.ErrStore unless it already carries a store kind.
func storeErr(op string, err error) error {
	if errors.Is(err, errs.ErrPoolExhausted) || errors.Is(err, errs.ErrStore) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", errs.ErrStore, op, err)
}
