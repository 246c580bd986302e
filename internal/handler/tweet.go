package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/tweets/internal/model"
	"github.com/deppfellow/tweets/internal/server"
	"github.com/deppfellow/tweets/internal/service"
	"github.com/deppfellow/tweets/internal/validation"
)

// ListTweetsRequest carries nothing; the listing has a fixed cap and no cursor.
type ListTweetsRequest struct{}

func (r *ListTweetsRequest) Validate() error {
	return nil
}

// TweetIDRequest binds the :id path segment. The identifier is parsed by
// the handler so a malformed one is reported as INVALID_IDENTIFIER.
// The json tag keeps a request body from overriding the path.
type TweetIDRequest struct {
	ID string `param:"id" json:"-" validate:"required"`
}

func (r *TweetIDRequest) Validate() error {
	return validation.Struct(r)
}

// CreateTweetRequest is the body of POST /tweets. Message is a pointer so
// a missing field fails validation while an empty string is accepted.
type CreateTweetRequest struct {
	Message *string `json:"message" validate:"required"`
}

func (r *CreateTweetRequest) Validate() error {
	return validation.Struct(r)
}

type TweetHandler struct {
	Handler
	tweets *service.TweetService
}

func NewTweetHandler(s *server.Server, tweets *service.TweetService) *TweetHandler {
	return &TweetHandler{
		Handler: NewHandler(s),
		tweets:  tweets,
	}
}

// ListTweets returns the newest tweets with their likes.
func (h *TweetHandler) ListTweets(c echo.Context, _ *ListTweetsRequest) (model.Response[model.Tweet], error) {
	tweets, err := h.tweets.List(c.Request().Context())
	if err != nil {
		return model.Response[model.Tweet]{}, err
	}

	return model.NewResponse(tweets), nil
}

func (h *TweetHandler) GetTweet(c echo.Context, req *TweetIDRequest) (model.Tweet, error) {
	id, err := model.ParseID(req.ID)
	if err != nil {
		return model.Tweet{}, err
	}

	return h.tweets.Get(c.Request().Context(), id)
}

func (h *TweetHandler) CreateTweet(c echo.Context, req *CreateTweetRequest) (model.Tweet, error) {
	return h.tweets.Create(c.Request().Context(), *req.Message)
}

// DeleteTweet answers 204 whether or not the tweet existed.
func (h *TweetHandler) DeleteTweet(c echo.Context, req *TweetIDRequest) error {
	id, err := model.ParseID(req.ID)
	if err != nil {
		return err
	}

	return h.tweets.Delete(c.Request().Context(), id)
}
