package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"admissionAdvisor/pkg/logger"

	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Message string `json:"message"`
}

// ErrorHandler renders errors that escape the handlers (unknown routes, bind
// failures, panics recovered upstream) as {"message": ...}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if he.Internal != nil {
			logger.Debug("http_error_internal", "trace_id", logger.TraceIDFromContext(c.Request().Context()), "error", he.Internal)
		}
		message = fmt.Sprint(he.Message)
		if code >= http.StatusInternalServerError {
			message = http.StatusText(code)
		}
	} else {
		logger.Error("unhandled_error", "trace_id", logger.TraceIDFromContext(c.Request().Context()), "error", err)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(code)
	} else {
		writeErr = c.JSON(code, errorResponse{Message: message})
	}
	if writeErr != nil {
		logger.Error("failed_to_write_error_response", "error", writeErr)
	}
}
