package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePurger struct {
	calls []uuid.UUID
	err   error
}

func (f *fakePurger) DeleteByTweet(ctx context.Context, tweetID uuid.UUID) (int64, error) {
	f.calls = append(f.calls, tweetID)
	if f.err != nil {
		return 0, f.err
	}
	return 3, nil
}

func newTestJobService(purger LikePurger) *JobService {
	logger := zerolog.Nop()
	j := &JobService{logger: &logger}
	j.InitHandlers(purger)
	return j
}

func TestNewPurgeLikesTask(t *testing.T) {
	tweetID := uuid.New()

	task, err := NewPurgeLikesTask(tweetID)
	require.NoError(t, err)
	assert.Equal(t, TaskPurgeLikes, task.Type())

	var p PurgeLikesPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, tweetID, p.TweetID)
}

func TestHandlePurgeLikesTask(t *testing.T) {
	purger := &fakePurger{}
	j := newTestJobService(purger)
	tweetID := uuid.New()

	task, err := NewPurgeLikesTask(tweetID)
	require.NoError(t, err)

	require.NoError(t, j.handlePurgeLikesTask(context.Background(), task))
	assert.Equal(t, []uuid.UUID{tweetID}, purger.calls)
}

func TestHandlePurgeLikesTask_StoreFailureRetries(t *testing.T) {
	purger := &fakePurger{err: errors.New("store down")}
	j := newTestJobService(purger)

	task, err := NewPurgeLikesTask(uuid.New())
	require.NoError(t, err)

	err = j.handlePurgeLikesTask(context.Background(), task)
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandlePurgeLikesTask_BadPayloadSkipsRetry(t *testing.T) {
	j := newTestJobService(&fakePurger{})

	err := j.handlePurgeLikesTask(context.Background(), asynq.NewTask(TaskPurgeLikes, []byte("{")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestStart_RequiresHandlers(t *testing.T) {
	logger := zerolog.Nop()
	j := &JobService{logger: &logger}
	assert.Error(t, j.Start())
}
