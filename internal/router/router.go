// Package router builds the echo instance: middleware chain, error
// handler and routes.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/tweets/internal/handler"
	"github.com/deppfellow/tweets/internal/middleware"
	"github.com/deppfellow/tweets/internal/server"
)

// NewRouter wires middleware and routes. Order matters: the request id
// exists before the request logger is built, and tracing wraps everything
// that can fail.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middleware.Metrics(),
		middlewares.RateLimit.RateLimiter(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
	)

	registerSystemRoutes(router, h)
	registerTweetRoutes(router, h)

	return router
}

func registerTweetRoutes(r *echo.Echo, h *handler.Handlers) {
	tweets := r.Group("/tweets")

	tweets.GET("", handler.Handle(h.Tweets.Handler, h.Tweets.ListTweets, http.StatusOK, &handler.ListTweetsRequest{}))
	tweets.POST("", handler.Handle(h.Tweets.Handler, h.Tweets.CreateTweet, http.StatusCreated, &handler.CreateTweetRequest{}))
	tweets.GET("/:id", handler.Handle(h.Tweets.Handler, h.Tweets.GetTweet, http.StatusOK, &handler.TweetIDRequest{}))
	tweets.DELETE("/:id", handler.HandleNoContent(h.Tweets.Handler, h.Tweets.DeleteTweet, http.StatusNoContent, &handler.TweetIDRequest{}))

	tweets.GET("/:id/likes", handler.Handle(h.Likes.Handler, h.Likes.ListLikes, http.StatusOK, &handler.TweetIDRequest{}))
	tweets.POST("/:id/likes", handler.Handle(h.Likes.Handler, h.Likes.PlusOne, http.StatusCreated, &handler.TweetIDRequest{}))
	tweets.DELETE("/:id/likes", handler.HandleNoContent(h.Likes.Handler, h.Likes.MinusOne, http.StatusNoContent, &handler.TweetIDRequest{}))
}
