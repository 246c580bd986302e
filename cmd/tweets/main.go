package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/deppfellow/tweets/internal/config"
	"github.com/deppfellow/tweets/internal/database"
	"github.com/deppfellow/tweets/internal/handler"
	"github.com/deppfellow/tweets/internal/logger"
	"github.com/deppfellow/tweets/internal/metrics"
	"github.com/deppfellow/tweets/internal/repository"
	"github.com/deppfellow/tweets/internal/router"
	"github.com/deppfellow/tweets/internal/server"
	"github.com/deppfellow/tweets/internal/service"
)

const defaultShutdownTimeout = 30 * time.Second

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	defer loggerService.Shutdown()

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	if cfg.Primary.Env != "local" || cmd.Bool("migrate") {
		if err := database.Migrate(ctx, &log, cfg.Database.DSN()); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	if err := metrics.RegisterPool(srv.DB.Pool); err != nil {
		log.Warn().Err(err).Msg("failed to register pool metrics")
	}

	repos := repository.NewRepositories(srv)

	srv.Job.InitHandlers(repos.Likes)
	if err := srv.Job.Start(); err != nil {
		// Likes of deleted tweets stay until a worker runs again.
		log.Error().Err(err).Msg("failed to start background jobs, continuing without them")
	}

	services, err := service.NewService(srv, repos)
	if err != nil {
		return fmt.Errorf("could not create services: %w", err)
	}

	handlers := handler.NewHandlers(srv, services)
	r := router.NewRouter(srv, handlers)
	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cmd.Duration("shutdown-timeout"))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server exited properly")
	return nil
}

func migrate(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	// Migrations run without the New Relic agent.
	log := logger.NewLoggerWithService(cfg.Observability, nil)

	return database.Migrate(ctx, &log, cfg.Database.DSN())
}

func main() {
	cmd := &cli.Command{
		Name:  "tweets",
		Usage: "Tweets and likes over PostgreSQL",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API",
				Action: serve,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "migrate",
						Usage:   "Apply the schema before serving, even in the local environment",
						Sources: cli.EnvVars("TWEETS_MIGRATE"),
					},
					&cli.DurationFlag{
						Name:  "shutdown-timeout",
						Usage: "How long in-flight requests may run after a shutdown signal",
						Value: defaultShutdownTimeout,
					},
				},
			},
			{
				Name:   "migrate",
				Usage:  "Apply the bootstrap schema and exit",
				Action: migrate,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log := zerolog.New(os.Stderr).With().Timestamp().Logger()
		log.Error().Err(err).Msg("application error")
		os.Exit(1)
	}
}
