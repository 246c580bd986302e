package repository

import (
	"github.com/deppfellow/tweets/internal/server"
)

// Repositories groups the repositories built on the shared pool.
type Repositories struct {
	Tweets *TweetRepository
	Likes  *LikeRepository
}

func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Tweets: NewTweetRepository(s.DB),
		Likes:  NewLikeRepository(s.DB),
	}
}
