package repository

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/deppfellow/tweets/internal/config"
	"github.com/deppfellow/tweets/internal/database"
)

// startPostgres runs a disposable PostgreSQL container with the schema
// applied and returns its DSN. The container is removed on test cleanup.
func startPostgres(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping PostgreSQL integration test in short mode")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "tweets",
			"POSTGRES_PASSWORD": "tweets",
			"POSTGRES_DB":       "tweets",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	portNum, err := strconv.Atoi(port.Port())
	require.NoError(t, err)

	dsn := config.DatabaseConfig{
		Host:     host,
		Port:     portNum,
		User:     "tweets",
		Password: "tweets",
		Name:     "tweets",
		SSLMode:  "disable",
	}.DSN()

	logger := zerolog.Nop()
	require.NoError(t, database.Migrate(ctx, &logger, dsn))

	return dsn
}

// newTestDatabase opens a pool of at most maxConns connections on dsn.
func newTestDatabase(t *testing.T, dsn string, maxConns int, acquireTimeout, queryTimeout time.Duration) *database.Database {
	t.Helper()

	poolConfig, err := pgxpool.ParseConfig(fmt.Sprintf("%s&pool_max_conns=%d", dsn, maxConns))
	require.NoError(t, err)

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	logger := zerolog.Nop()
	return database.NewFromPool(pool, &logger, acquireTimeout, queryTimeout)
}
