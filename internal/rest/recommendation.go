package rest

import (
	"context"
	"net/http"
	"time"

	"admissionAdvisor/domain"
	"admissionAdvisor/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	RecommendationHandler struct {
		service RecommendationService
		timeout time.Duration
	}

	RecommendationService interface {
		RecommendCourses(ctx context.Context, profile domain.StudentProfile) ([]domain.Recommendation, error)
		SubmitFeedback(ctx context.Context, profile domain.FeedbackProfile, ratings map[string]string) (domain.FeedbackBatchResult, error)
		TrainModel(ctx context.Context) error
		ModelInfo() domain.ModelInfo
	}

	FeedbackBatchRequest struct {
		Profile domain.FeedbackProfile `json:"profile"`
		Ratings map[string]string      `json:"ratings"`
	}
)

func NewRecommendationHandler(service RecommendationService, timeout time.Duration) *RecommendationHandler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RecommendationHandler{
		service: service,
		timeout: timeout,
	}
}

// Recommend accepts the profile as query parameters (GET) or a JSON body (POST).
func (h *RecommendationHandler) Recommend(c echo.Context) error {
	var profile domain.StudentProfile
	if err := c.Bind(&profile); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: msgInvalidBody})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	recs, err := h.service.RecommendCourses(ctx, profile)
	if err != nil {
		status, msg := errorStatus(err)
		if status >= http.StatusInternalServerError {
			logger.Error("Failed to recommend courses", "trace_id", logger.TraceIDFromContext(ctx), "error", err)
		}
		return c.JSON(status, ResponseError{Message: msg})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(recs))
}

func (h *RecommendationHandler) Feedback(c echo.Context) error {
	var req FeedbackBatchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: msgInvalidBody})
	}
	if len(req.Ratings) == 0 {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "ratings is required"})
	}

	// covers the retrain that follows the batch
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*h.timeout)
	defer cancel()

	result, err := h.service.SubmitFeedback(ctx, req.Profile, req.Ratings)
	if err != nil {
		status, msg := errorStatus(err)
		if status >= http.StatusInternalServerError {
			logger.Error("Failed to submit feedback", "trace_id", logger.TraceIDFromContext(ctx), "error", err)
		}
		return c.JSON(status, ResponseError{Message: msg})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(result))
}

func (h *RecommendationHandler) ModelInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.service.ModelInfo()))
}

func (h *RecommendationHandler) Retrain(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*h.timeout)
	defer cancel()

	if err := h.service.TrainModel(ctx); err != nil {
		logger.Error("Failed to retrain model", "trace_id", logger.TraceIDFromContext(ctx), "error", err)
		status, msg := errorStatus(err)
		return c.JSON(status, ResponseError{Message: msg})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.service.ModelInfo()))
}
