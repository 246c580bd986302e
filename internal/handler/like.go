package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/tweets/internal/model"
	"github.com/deppfellow/tweets/internal/server"
	"github.com/deppfellow/tweets/internal/service"
)

type LikeHandler struct {
	Handler
	likes *service.LikeService
}

func NewLikeHandler(s *server.Server, likes *service.LikeService) *LikeHandler {
	return &LikeHandler{
		Handler: NewHandler(s),
		likes:   likes,
	}
}

func (h *LikeHandler) ListLikes(c echo.Context, req *TweetIDRequest) (model.Response[model.Like], error) {
	id, err := model.ParseID(req.ID)
	if err != nil {
		return model.Response[model.Like]{}, err
	}

	likes, err := h.likes.List(c.Request().Context(), id)
	if err != nil {
		return model.Response[model.Like]{}, err
	}

	return model.NewResponse(likes), nil
}

func (h *LikeHandler) PlusOne(c echo.Context, req *TweetIDRequest) (model.Like, error) {
	id, err := model.ParseID(req.ID)
	if err != nil {
		return model.Like{}, err
	}

	return h.likes.PlusOne(c.Request().Context(), id)
}

func (h *LikeHandler) MinusOne(c echo.Context, req *TweetIDRequest) error {
	id, err := model.ParseID(req.ID)
	if err != nil {
		return err
	}

	return h.likes.MinusOne(c.Request().Context(), id)
}
