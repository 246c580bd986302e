// Package service contains the business logic.
//
// It sits between the handler and repository layers. The tweet service
// owns the aggregation of a tweet with its likes, which live in a separate
// store and are fetched with separate queries.
package service

import (
	"context"

	"github.com/rs/zerolog"
)

// loggerFrom returns the request-scoped logger carried by ctx, or fallback
// when the context has none.
func loggerFrom(ctx context.Context, fallback *zerolog.Logger) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return fallback
}
