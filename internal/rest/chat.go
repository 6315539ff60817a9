package rest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"admissionAdvisor/domain"
	"admissionAdvisor/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	ChatHandler struct {
		matcher ChatService
		timeout time.Duration
	}

	ChatService interface {
		Answer(ctx context.Context, question string) (domain.MatchResult, error)
		GetSuggestedQuestions(ctx context.Context, question string) ([]string, error)
		Questions(ctx context.Context) ([]domain.FAQ, error)
	}

	ChatRequest struct {
		Message string `json:"message"`
	}

	ChatResponse struct {
		Response           string   `json:"response"`
		Source             string   `json:"source"`
		Status             string   `json:"status"`
		Confidence         float64  `json:"confidence"`
		SuggestedQuestions []string `json:"suggested_questions"`
	}

	ChatErrorResponse struct {
		Error  string `json:"error"`
		Status string `json:"status"`
	}

	SuggestionQuery struct {
		Q string `query:"q"`
	}
)

func NewChatHandler(matcher ChatService, timeout time.Duration) *ChatHandler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ChatHandler{
		matcher: matcher,
		timeout: timeout,
	}
}

func (h *ChatHandler) Chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ChatErrorResponse{Error: msgInvalidBody, Status: "error"})
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return c.JSON(http.StatusBadRequest, ChatErrorResponse{Error: "No message provided", Status: "error"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	res, err := h.matcher.Answer(ctx, message)
	if err != nil {
		status, msg := errorStatus(err)
		logger.Error("Failed to answer chat message", "trace_id", logger.TraceIDFromContext(ctx), "error", err)
		return c.JSON(status, ChatErrorResponse{Error: msg, Status: "error"})
	}

	return c.JSON(http.StatusOK, ChatResponse{
		Response:           res.Answer,
		Source:             res.Source,
		Status:             "success",
		Confidence:         res.Confidence,
		SuggestedQuestions: res.SuggestedQuestions,
	})
}

func (h *ChatHandler) Suggestions(c echo.Context) error {
	var q SuggestionQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: msgInvalidBody})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	suggested, err := h.matcher.GetSuggestedQuestions(ctx, q.Q)
	if err != nil {
		status, msg := errorStatus(err)
		logger.Error("Failed to load suggestions", "trace_id", logger.TraceIDFromContext(ctx), "error", err)
		return c.JSON(status, ResponseError{Message: msg})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(suggested))
}

func (h *ChatHandler) ListFAQs(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	faqs, err := h.matcher.Questions(ctx)
	if err != nil {
		status, msg := errorStatus(err)
		logger.Error("Failed to list faqs", "trace_id", logger.TraceIDFromContext(ctx), "error", err)
		return c.JSON(status, ResponseError{Message: msg})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(faqs))
}
