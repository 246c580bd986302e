// Package job runs background work on Asynq, a Redis-backed task queue.
//
// The API enqueues tasks with the asynq client; the asynq server executes
// them with the handlers registered in Start.
package job

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/deppfellow/tweets/internal/config"
)

// LikePurger deletes every like of a tweet.
type LikePurger interface {
	DeleteByTweet(ctx context.Context, tweetID uuid.UUID) (int64, error)
}

// JobService holds the Asynq client (enqueue) and server (workers).
type JobService struct {
	Client *asynq.Client

	server *asynq.Server
	logger *zerolog.Logger

	likes LikePurger
}

// NewJobService creates the client and server against cfg.Redis.
// Queue weights give "critical" tasks the larger share of the workers.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisAddr := cfg.Redis.Address

	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr: redisAddr,
	})

	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			Logger: newAsynqLogger(logger),
		},
	)

	return &JobService{
		Client: client,
		server: server,
		logger: logger,
	}
}

// Start registers the task handlers and starts the workers. InitHandlers
// must have been called first.
func (j *JobService) Start() error {
	if j.likes == nil {
		return errors.New("job handlers not initialized")
	}

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskPurgeLikes, j.handlePurgeLikesTask)

	j.logger.Info().Msg("starting background job server")

	// asynq.Server.Start does not block; Run would.
	if err := j.server.Start(mux); err != nil {
		return err
	}

	return nil
}

// Stop waits for in-flight tasks and closes the client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("stopping background job server")
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Warn().Err(err).Msg("failed to close job client")
	}
}
