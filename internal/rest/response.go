package rest

import (
	"context"
	"errors"
	"net/http"

	"admissionAdvisor/domain"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

const msgInvalidBody = "invalid request body"

// errorStatus maps the domain error taxonomy onto an HTTP status and a message
// that is safe to show to end users.
func errorStatus(err error) (int, string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInferenceUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	return status, domain.UserMessage(err)
}
