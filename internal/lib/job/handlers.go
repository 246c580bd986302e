package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// InitHandlers hands the job handlers their dependencies.
func (j *JobService) InitHandlers(likes LikePurger) {
	j.likes = likes
}

// handlePurgeLikesTask deletes the likes left behind by a deleted tweet.
// Returning an error makes Asynq retry the task.
func (j *JobService) handlePurgeLikesTask(ctx context.Context, t *asynq.Task) error {
	var p PurgeLikesPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal purge likes payload: %w: %w", err, asynq.SkipRetry)
	}

	j.logger.Info().
		Str("type", TaskPurgeLikes).
		Str("tweet_id", p.TweetID.String()).
		Msg("processing purge likes task")

	purged, err := j.likes.DeleteByTweet(ctx, p.TweetID)
	if err != nil {
		j.logger.Error().
			Str("type", TaskPurgeLikes).
			Str("tweet_id", p.TweetID.String()).
			Err(err).
			Msg("failed to purge likes")
		return err
	}

	j.logger.Info().
		Str("type", TaskPurgeLikes).
		Str("tweet_id", p.TweetID.String()).
		Int64("purged", purged).
		Msg("purged likes of deleted tweet")

	return nil
}
