package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/tweets/internal/errs"
	"github.com/deppfellow/tweets/internal/model"
)

func TestTweetRepository_Integration(t *testing.T) {
	dsn := startPostgres(t)
	db := newTestDatabase(t, dsn, 4, time.Second, 5*time.Second)
	repo := NewTweetRepository(db)
	ctx := context.Background()

	t.Run("create then find returns the stored id", func(t *testing.T) {
		record := model.NewTweet("hello").ToRecord()

		created, err := repo.Create(ctx, record)
		require.NoError(t, err)
		assert.Equal(t, record.ID, created.ID)

		found, err := repo.FindByID(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, record.ID, found.ID)
		assert.Equal(t, "hello", found.Message)
		assert.Equal(t, model.FormatWireTime(record.CreatedAt), model.FormatWireTime(model.FromStorageTime(found.CreatedAt)))

		parsed, err := model.ParseID(found.ToTweet().ID)
		require.NoError(t, err)
		assert.Equal(t, record.ID, parsed)
	})

	t.Run("find missing is not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, model.NewID())
		assert.True(t, errors.Is(err, errs.ErrNotFound))
	})

	t.Run("list is capped and newest first", func(t *testing.T) {
		base := time.Now().UTC().Add(time.Hour)
		for i := 0; i < 60; i++ {
			_, err := repo.Create(ctx, model.TweetRecord{
				ID:        model.NewID(),
				CreatedAt: model.ToStorageTime(base.Add(time.Duration(i) * time.Millisecond)),
				Message:   "bulk",
			})
			require.NoError(t, err)
		}

		records, err := repo.List(ctx, 50)
		require.NoError(t, err)
		require.Len(t, records, 50)

		for i := 1; i < len(records); i++ {
			assert.False(t, records[i-1].CreatedAt.Before(records[i].CreatedAt), "records %d and %d out of order", i-1, i)
		}
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		record, err := repo.Create(ctx, model.NewTweet("bye").ToRecord())
		require.NoError(t, err)

		require.NoError(t, repo.DeleteByID(ctx, record.ID))
		require.NoError(t, repo.DeleteByID(ctx, record.ID))
		require.NoError(t, repo.DeleteByID(ctx, model.NewID()))

		_, err = repo.FindByID(ctx, record.ID)
		assert.True(t, errors.Is(err, errs.ErrNotFound))
	})
}

func TestWithConn_PoolExhausted(t *testing.T) {
	dsn := startPostgres(t)
	db := newTestDatabase(t, dsn, 1, 200*time.Millisecond, 5*time.Second)
	repo := NewTweetRepository(db)

	held := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- db.WithConn(context.Background(), func(ctx context.Context, conn *pgxpool.Conn) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	start := time.Now()
	_, err := repo.List(context.Background(), 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrPoolExhausted))
	assert.Less(t, time.Since(start), 2*time.Second)

	close(release)
	require.NoError(t, <-done)

	// The lease was released, so the pool serves again.
	_, err = repo.List(context.Background(), 10)
	assert.NoError(t, err)
}

func TestWithConn_PoolExhaustedWhenQueryTimeoutExpiresFirst(t *testing.T) {
	dsn := startPostgres(t)
	db := newTestDatabase(t, dsn, 1, 300*time.Millisecond, 300*time.Millisecond)
	repo := NewTweetRepository(db)

	held := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- db.WithConn(context.Background(), func(ctx context.Context, conn *pgxpool.Conn) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	_, err := repo.List(context.Background(), 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrPoolExhausted), err.Error())

	close(release)
	require.NoError(t, <-done)
}

func TestWithConn_CallerCancelIsNotPoolExhausted(t *testing.T) {
	dsn := startPostgres(t)
	db := newTestDatabase(t, dsn, 1, time.Second, 5*time.Second)
	repo := NewTweetRepository(db)

	held := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- db.WithConn(context.Background(), func(ctx context.Context, conn *pgxpool.Conn) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err := repo.List(ctx, 10)
	require.Error(t, err)
	assert.False(t, errors.Is(err, errs.ErrPoolExhausted))
	assert.True(t, errors.Is(err, errs.ErrStore))

	close(release)
	require.NoError(t, <-done)
}
