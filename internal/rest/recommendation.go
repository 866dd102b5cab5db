package rest

import (
	"context"
	"errors"
	"myMovieRecs/domain"
	"myMovieRecs/pkg/logger"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	RecommendationHandler struct {
		validate              *validator.Validate
		recommendationService RecommendationService
		timeout               time.Duration
	}

	RecommendationService interface {
		GetUserRecommendations(ctx context.Context, userID string) (domain.UserRecommendationsResponse, error)
		GetContentRecommendations(ctx context.Context, showID string) (domain.ContentRecommendationsResponse, error)
	}

	UserRecommendationParam struct {
		UserID string `param:"userId" validate:"required"`
	}

	ContentRecommendationParam struct {
		ShowID string `param:"showId" validate:"required"`
	}
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

func NewRecommendationHandler(svc RecommendationService, timeout time.Duration) *RecommendationHandler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RecommendationHandler{
		validate:              validator.New(),
		recommendationService: svc,
		timeout:               timeout,
	}
}

// GET /api/recommendations/:userId
func (h *RecommendationHandler) GetUserRecommendations(c echo.Context) error {
	var p UserRecommendationParam
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&p); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	resp, err := h.recommendationService.GetUserRecommendations(ctx, p.UserID)
	if err != nil {
		logger.Error("Failed to get user recommendations", "user_id", p.UserID, "error", err)
		return storeFailure(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}

// GET /api/recommendations/content/:showId
func (h *RecommendationHandler) GetContentRecommendations(c echo.Context) error {
	var p ContentRecommendationParam
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&p); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid show id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	resp, err := h.recommendationService.GetContentRecommendations(ctx, p.ShowID)
	if err != nil {
		logger.Error("Failed to get content recommendations", "show_id", p.ShowID, "error", err)
		return storeFailure(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}

func storeFailure(c echo.Context, err error) error {
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return c.JSON(http.StatusServiceUnavailable, ResponseError{Message: domain.ErrStoreUnavailable.Error()})
	}
	return c.JSON(http.StatusInternalServerError, fres.Response.StatusInternalServerError(http.StatusInternalServerError))
}
