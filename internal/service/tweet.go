package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/deppfellow/tweets/internal/config"
	"github.com/deppfellow/tweets/internal/errs"
	"github.com/deppfellow/tweets/internal/metrics"
	"github.com/deppfellow/tweets/internal/model"
)

// TweetServiceConfig tunes listing and enrichment.
type TweetServiceConfig struct {
	ListLimit         int
	EnrichConcurrency int
}

// TweetService composes tweets with their likes.
type TweetService struct {
	logger *zerolog.Logger
	tweets TweetStore
	likes  LikeStore
	purger PurgeEnqueuer

	listLimit         int
	enrichConcurrency int
}

// NewTweetService builds the service. purger may be nil, in which case
// deleted tweets keep their likes.
func NewTweetService(logger *zerolog.Logger, tweets TweetStore, likes LikeStore, purger PurgeEnqueuer, cfg TweetServiceConfig) *TweetService {
	if cfg.ListLimit <= 0 || cfg.ListLimit > config.ListLimit {
		cfg.ListLimit = config.ListLimit
	}
	if cfg.EnrichConcurrency <= 0 {
		cfg.EnrichConcurrency = config.DefaultEnrichConcurrency
	}

	return &TweetService{
		logger:            logger,
		tweets:            tweets,
		likes:             likes,
		purger:            purger,
		listLimit:         cfg.ListLimit,
		enrichConcurrency: cfg.EnrichConcurrency,
	}
}

// EnrichOne returns tweet with its likes attached.
func (s *TweetService) EnrichOne(ctx context.Context, tweet model.Tweet) (model.Tweet, error) {
	start := time.Now()

	enriched, err := s.enrichOne(ctx, tweet)
	if err != nil {
		return model.Tweet{}, err
	}

	metrics.EnrichedTweets.WithLabelValues("single").Inc()
	metrics.EnrichDuration.WithLabelValues("single").Observe(time.Since(start).Seconds())

	return enriched, nil
}

func (s *TweetService) enrichOne(ctx context.Context, tweet model.Tweet) (model.Tweet, error) {
	id, err := model.ParseID(tweet.ID)
	if err != nil {
		return model.Tweet{}, err
	}

	records, err := s.likes.ListByTweet(ctx, id)
	if err != nil {
		return model.Tweet{}, err
	}

	return tweet.WithLikes(model.LikesFromRecords(records)), nil
}

// EnrichMany attaches likes to every tweet, keeping the input order.
//
// When the like store supports batched lookups one query serves all tweets.
// Otherwise each tweet is enriched on its own connection with at most
// enrichConcurrency lookups in flight; the first failure cancels the rest.
func (s *TweetService) EnrichMany(ctx context.Context, tweets []model.Tweet) ([]model.Tweet, error) {
	if len(tweets) == 0 {
		return []model.Tweet{}, nil
	}

	start := time.Now()
	mode := "fanout"

	var (
		enriched []model.Tweet
		err      error
	)
	if batch, ok := s.likes.(BatchLikeStore); ok {
		mode = "batch"
		enriched, err = s.enrichBatch(ctx, batch, tweets)
	} else {
		enriched, err = s.enrichFanOut(ctx, tweets)
	}
	if err != nil {
		return nil, err
	}

	metrics.EnrichedTweets.WithLabelValues(mode).Add(float64(len(enriched)))
	metrics.EnrichDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())

	return enriched, nil
}

func (s *TweetService) enrichBatch(ctx context.Context, batch BatchLikeStore, tweets []model.Tweet) ([]model.Tweet, error) {
	ids := make([]uuid.UUID, len(tweets))
	for i, tweet := range tweets {
		id, err := model.ParseID(tweet.ID)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}

	grouped, err := batch.ListByTweets(ctx, ids)
	if err != nil {
		return nil, err
	}

	enriched := make([]model.Tweet, len(tweets))
	for i, tweet := range tweets {
		enriched[i] = tweet.WithLikes(model.LikesFromRecords(grouped[ids[i]]))
	}

	return enriched, nil
}

func (s *TweetService) enrichFanOut(ctx context.Context, tweets []model.Tweet) ([]model.Tweet, error) {
	enriched := make([]model.Tweet, len(tweets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.enrichConcurrency)

	for i, tweet := range tweets {
		g.Go(func() error {
			t, err := s.enrichOne(gctx, tweet)
			if err != nil {
				return err
			}
			enriched[i] = t
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return enriched, nil
}

// List returns the newest tweets, at most listLimit, with their likes.
//
// A failing tweet listing degrades to an empty result. Pool exhaustion and
// a canceled request are not degraded.
func (s *TweetService) List(ctx context.Context) ([]model.Tweet, error) {
	records, err := s.tweets.List(ctx, s.listLimit)
	if err != nil {
		if !errors.Is(err, errs.ErrStore) || errors.Is(err, errs.ErrPoolExhausted) || ctx.Err() != nil {
			return nil, err
		}

		metrics.StoreErrors.WithLabelValues("store").Inc()
		loggerFrom(ctx, s.logger).Warn().Err(err).Msg("listing tweets failed, returning an empty list")
		return []model.Tweet{}, nil
	}

	return s.EnrichMany(ctx, model.TweetsFromRecords(records))
}

// Get returns the tweet id with its likes, or errs.ErrNotFound.
func (s *TweetService) Get(ctx context.Context, id uuid.UUID) (model.Tweet, error) {
	record, err := s.tweets.FindByID(ctx, id)
	if err != nil {
		return model.Tweet{}, err
	}

	return s.EnrichOne(ctx, record.ToTweet())
}

// Create stores a new tweet. A fresh tweet has no likes so none are fetched.
func (s *TweetService) Create(ctx context.Context, message string) (model.Tweet, error) {
	record, err := s.tweets.Create(ctx, model.NewTweet(message).ToRecord())
	if err != nil {
		return model.Tweet{}, err
	}

	loggerFrom(ctx, s.logger).Info().
		Str("event", "tweet_created").
		Str("tweet_id", record.ID.String()).
		Msg("tweet created")

	return record.ToTweet(), nil
}

// Delete removes the tweet id. Deleting an unknown id succeeds. The likes
// are purged in the background; a failure to schedule the purge is logged
// and does not fail the delete.
func (s *TweetService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.tweets.DeleteByID(ctx, id); err != nil {
		return err
	}

	logger := loggerFrom(ctx, s.logger)
	logger.Info().
		Str("event", "tweet_deleted").
		Str("tweet_id", id.String()).
		Msg("tweet deleted")

	if s.purger == nil {
		return nil
	}

	if err := s.purger.EnqueuePurgeLikes(ctx, id); err != nil {
		metrics.PurgeJobsEnqueued.WithLabelValues("error").Inc()
		logger.Warn().Err(err).Str("tweet_id", id.String()).Msg("failed to enqueue likes purge")
		return nil
	}
	metrics.PurgeJobsEnqueued.WithLabelValues("ok").Inc()

	return nil
}
