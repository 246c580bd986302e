package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/deppfellow/tweets/internal/model"
)

// TweetStore is the record store the services read and write tweets through.
type TweetStore interface {
	List(ctx context.Context, limit int) ([]model.TweetRecord, error)
	FindByID(ctx context.Context, id uuid.UUID) (model.TweetRecord, error)
	Create(ctx context.Context, record model.TweetRecord) (model.TweetRecord, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// LikeStore is the annotation store keyed by tweet id.
type LikeStore interface {
	ListByTweet(ctx context.Context, tweetID uuid.UUID) ([]model.LikeRecord, error)
	Create(ctx context.Context, tweetID uuid.UUID) (model.LikeRecord, error)
	DeleteLatest(ctx context.Context, tweetID uuid.UUID) (bool, error)
}

// BatchLikeStore is implemented by like stores that can fetch the likes of
// many tweets in one round trip.
type BatchLikeStore interface {
	ListByTweets(ctx context.Context, tweetIDs []uuid.UUID) (map[uuid.UUID][]model.LikeRecord, error)
}

// PurgeEnqueuer schedules the removal of a deleted tweet's likes.
type PurgeEnqueuer interface {
	EnqueuePurgeLikes(ctx context.Context, tweetID uuid.UUID) error
}
