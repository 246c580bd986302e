package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// TaskPurgeLikes is the task type removing the likes of a deleted tweet.
const TaskPurgeLikes = "likes:purge"

// PurgeLikesPayload is the JSON payload of a TaskPurgeLikes task.
type PurgeLikesPayload struct {
	TweetID uuid.UUID `json:"tweet_id"`
}

// NewPurgeLikesTask builds a purge task for tweetID. The task is unique per
// tweet for an hour so repeated deletes do not queue duplicates.
func NewPurgeLikesTask(tweetID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(PurgeLikesPayload{TweetID: tweetID})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskPurgeLikes,
		payload,
		asynq.MaxRetry(5),
		asynq.Queue("low"),
		asynq.Timeout(30*time.Second),
		asynq.Unique(time.Hour),
	), nil
}

// EnqueuePurgeLikes schedules the purge of tweetID's likes.
func (j *JobService) EnqueuePurgeLikes(ctx context.Context, tweetID uuid.UUID) error {
	task, err := NewPurgeLikesTask(tweetID)
	if err != nil {
		return fmt.Errorf("building purge likes task: %w", err)
	}

	info, err := j.Client.EnqueueContext(ctx, task)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		// A purge for this tweet is already queued.
		return nil
	}
	if err != nil {
		return fmt.Errorf("enqueueing purge likes task: %w", err)
	}

	j.logger.Debug().
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Str("tweet_id", tweetID.String()).
		Msg("enqueued purge likes task")

	return nil
}
