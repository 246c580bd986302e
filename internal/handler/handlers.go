package handler

import (
	"github.com/deppfellow/tweets/internal/server"
	"github.com/deppfellow/tweets/internal/service"
)

// Handlers groups every HTTP handler so the router receives one value.
type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	Tweets  *TweetHandler
	Likes   *LikeHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		Tweets:  NewTweetHandler(s, services.Tweets),
		Likes:   NewLikeHandler(s, services.Likes),
	}
}
