package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/deppfellow/tweets/internal/model"
)

// LikeService manages the likes of a tweet.
type LikeService struct {
	logger *zerolog.Logger
	tweets TweetStore
	likes  LikeStore
}

func NewLikeService(logger *zerolog.Logger, tweets TweetStore, likes LikeStore) *LikeService {
	return &LikeService{
		logger: logger,
		tweets: tweets,
		likes:  likes,
	}
}

// List returns the likes of tweetID, newest first. An unknown tweet has no
// likes.
func (s *LikeService) List(ctx context.Context, tweetID uuid.UUID) ([]model.Like, error) {
	records, err := s.likes.ListByTweet(ctx, tweetID)
	if err != nil {
		return nil, err
	}

	return model.LikesFromRecords(records), nil
}

// PlusOne adds a like to tweetID, which must exist.
func (s *LikeService) PlusOne(ctx context.Context, tweetID uuid.UUID) (model.Like, error) {
	if _, err := s.tweets.FindByID(ctx, tweetID); err != nil {
		return model.Like{}, err
	}

	record, err := s.likes.Create(ctx, tweetID)
	if err != nil {
		return model.Like{}, err
	}

	return record.ToLike(), nil
}

// MinusOne removes the latest like of tweetID. Nothing to remove is not an
// error.
func (s *LikeService) MinusOne(ctx context.Context, tweetID uuid.UUID) error {
	deleted, err := s.likes.DeleteLatest(ctx, tweetID)
	if err != nil {
		return err
	}

	if !deleted {
		loggerFrom(ctx, s.logger).Debug().
			Str("tweet_id", tweetID.String()).
			Msg("no like to remove")
	}

	return nil
}
