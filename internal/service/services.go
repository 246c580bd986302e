package service

import (
	"github.com/deppfellow/tweets/internal/lib/job"
	"github.com/deppfellow/tweets/internal/repository"
	"github.com/deppfellow/tweets/internal/server"
)

type Services struct {
	Tweets *TweetService
	Likes  *LikeService
	Job    *job.JobService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	var purger PurgeEnqueuer
	if s.Job != nil {
		purger = s.Job
	}

	tweetService := NewTweetService(s.Logger, repos.Tweets, repos.Likes, purger, TweetServiceConfig{
		ListLimit:         s.Config.Tweets.ListLimit,
		EnrichConcurrency: s.Config.Tweets.EnrichConcurrency,
	})

	likeService := NewLikeService(s.Logger, repos.Tweets, repos.Likes)

	return &Services{
		Tweets: tweetService,
		Likes:  likeService,
		Job:    s.Job,
	}, nil
}
