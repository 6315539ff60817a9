package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type (
	HealthHandler struct {
		inference InferenceProbe
	}

	// InferenceProbe reports the inference circuit breaker state.
	InferenceProbe interface {
		State() string
	}

	HealthResponse struct {
		Status    string `json:"status"`
		Inference string `json:"inference,omitempty"`
	}
)

func NewHealthHandler(inference InferenceProbe) *HealthHandler {
	return &HealthHandler{inference: inference}
}

// Health answers the liveness probe. An open inference breaker does not make
// the process unhealthy; it is reported alongside.
func (h *HealthHandler) Health(c echo.Context) error {
	res := HealthResponse{Status: "healthy"}
	if h.inference != nil {
		res.Inference = h.inference.State()
	}
	return c.JSON(http.StatusOK, res)
}
