// Package database owns the PostgreSQL connection pool.
//
// It handles:
//   - building a pgxpool from config (bounded by max_open_conns)
//   - wiring query tracing (pgx tracelog in local env, New Relic when enabled)
//   - scoping connection leases to a single store operation (WithConn)
//   - applying the bootstrap schema (Migrate)
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"

	"github.com/deppfellow/tweets/internal/config"
	"github.com/deppfellow/tweets/internal/errs"
	loggerConfig "github.com/deppfellow/tweets/internal/logger"
)

// Database wraps the shared pgx pool.
//
// acquireTimeout bounds the wait for a free connection; queryTimeout bounds
// a whole leased operation.
type Database struct {
	Pool *pgxpool.Pool
	log  *zerolog.Logger

	acquireTimeout time.Duration
	queryTimeout   time.Duration
}

// multiTracer fans pgx tracer callbacks out to several tracers, since
// ConnConfig only has a single Tracer slot.
type multiTracer struct {
	tracers []any
}

func (mt *multiTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryStart(context.Context, *pgx.Conn, pgx.TraceQueryStartData) context.Context
		}); ok {
			ctx = t.TraceQueryStart(ctx, conn, data)
		}
	}
	return ctx
}

func (mt *multiTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryEnd(context.Context, *pgx.Conn, pgx.TraceQueryEndData)
		}); ok {
			t.TraceQueryEnd(ctx, conn, data)
		}
	}
}

// DatabasePingTimeout is the startup ping timeout in seconds.
const DatabasePingTimeout = 10

// New creates the connection pool, attaches tracers and pings the database.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	pgxPoolConfig, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	pgxPoolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	pgxPoolConfig.MinConns = int32(min(cfg.Database.MaxIdleConns, cfg.Database.MaxOpenConns))
	pgxPoolConfig.MaxConnLifetime = time.Duration(cfg.Database.ConnMaxLifetime) * time.Second
	pgxPoolConfig.MaxConnIdleTime = time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second

	if loggerService != nil && loggerService.GetApplication() != nil {
		pgxPoolConfig.ConnConfig.Tracer = nrpgx5.NewTracer()
	}

	// SQL logging is noisy, so only local env gets it.
	if cfg.Primary.Env == "local" {
		globalLevel := logger.GetLevel()
		pgxLogger := loggerConfig.NewPgxLogger(globalLevel)

		localTracer := &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(pgxLogger),
			LogLevel: loggerConfig.GetPgxTraceLogLevel(globalLevel),
		}

		if pgxPoolConfig.ConnConfig.Tracer != nil {
			pgxPoolConfig.ConnConfig.Tracer = &multiTracer{
				tracers: []any{pgxPoolConfig.ConnConfig.Tracer, localTracer},
			}
		} else {
			pgxPoolConfig.ConnConfig.Tracer = localTracer
		}
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), pgxPoolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	database := NewFromPool(pool, logger, cfg.Database.AcquireTimeout, cfg.Database.QueryTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout*time.Second)
	defer cancel()
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().
		Int32("max_conns", pgxPoolConfig.MaxConns).
		Dur("acquire_timeout", database.acquireTimeout).
		Dur("query_timeout", database.queryTimeout).
		Msg("connected to the database")

	return database, nil
}

// NewFromPool wraps an existing pool. Zero timeouts fall back to the config defaults.
func NewFromPool(pool *pgxpool.Pool, logger *zerolog.Logger, acquireTimeout, queryTimeout time.Duration) *Database {
	if acquireTimeout <= 0 {
		acquireTimeout = config.DefaultAcquireTimeout
	}
	if queryTimeout <= 0 {
		queryTimeout = config.DefaultQueryTimeout
	}

	return &Database{
		Pool:           pool,
		log:            logger,
		acquireTimeout: acquireTimeout,
		queryTimeout:   queryTimeout,
	}
}

// WithConn leases one connection for the duration of fn and releases it
// on every path.
//
// The whole call, acquire included, runs under the query timeout derived
// from parent, so cancelling the request cancels the query. When no
// connection frees up before the acquire or query timeout, whichever comes
// first, the call fails with errs.ErrPoolExhausted. An acquire that fails
// because parent itself is done, or for any other reason, is errs.ErrStore.
func (db *Database) WithConn(parent context.Context, fn func(ctx context.Context, conn *pgxpool.Conn) error) error {
	ctx, cancel := context.WithTimeout(parent, db.queryTimeout)
	defer cancel()

	acquireCtx, cancelAcquire := context.WithTimeout(ctx, db.acquireTimeout)
	conn, err := db.Pool.Acquire(acquireCtx)
	acquireErr := acquireCtx.Err()
	cancelAcquire()

	if err != nil {
		if errors.Is(acquireErr, context.DeadlineExceeded) && parent.Err() == nil {
			stat := db.Pool.Stat()
			db.log.Warn().
				Int32("acquired_conns", stat.AcquiredConns()).
				Int32("max_conns", stat.MaxConns()).
				Dur("acquire_timeout", db.acquireTimeout).
				Msg("connection pool exhausted")
			return fmt.Errorf("%w: no connection within %s", errs.ErrPoolExhausted, db.acquireTimeout)
		}
		return fmt.Errorf("%w: acquire connection: %w", errs.ErrStore, err)
	}
	defer conn.Release()

	return fn(ctx, conn)
}

// Ping checks connectivity through the pool.
func (db *Database) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Close closes the pool. pgxpool.Close does not report errors.
func (db *Database) Close() error {
	db.log.Info().Msg("closing database connection pool")
	db.Pool.Close()
	return nil
}
