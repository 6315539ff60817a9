//go:build !integration

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"admissionAdvisor/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	e.Use(RequestID())
	return e
}

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	e := newEcho()

	var seen string
	e.GET("/ping", func(c echo.Context) error {
		seen = logger.TraceIDFromContext(c.Request().Context())
		return c.String(http.StatusOK, "pong")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	id := rec.Header().Get(HeaderRequestID)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.Equal(t, id, seen)
}

func TestRequestID_KeepsIncomingHeader(t *testing.T) {
	e := newEcho()
	e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))
}

func TestErrorHandler(t *testing.T) {
	e := newEcho()
	e.GET("/bad", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	})
	e.GET("/boom", func(c echo.Context) error {
		return errors.New("pq: connection refused")
	})

	tests := []struct {
		path string
		code int
		body string
	}{
		{path: "/missing", code: http.StatusNotFound, body: `{"message":"Not Found"}`},
		{path: "/bad", code: http.StatusBadRequest, body: `{"message":"invalid request body"}`},
		{path: "/boom", code: http.StatusInternalServerError, body: `{"message":"Internal Server Error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.code, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
			assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
		})
	}
}
