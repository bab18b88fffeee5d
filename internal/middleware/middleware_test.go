package middleware_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"productsapi/internal/errs"
	"productsapi/internal/middleware"
	"productsapi/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(log zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(log)})
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger(log))
	return app
}

func errorBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body["error"]
}

func TestErrorHandler(t *testing.T) {
	var buf bytes.Buffer
	app := newTestApp(zerolog.New(&buf))
	app.Get("/http", func(c *fiber.Ctx) error { return errs.NewNotFoundError(errs.MsgProductNotFound) })
	app.Get("/fiber", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("pq: relation does not exist") })

	tests := []struct {
		path       string
		wantStatus int
		wantError  string
	}{
		{"/http", http.StatusNotFound, errs.MsgProductNotFound},
		{"/fiber", http.StatusTeapot, "short and stout"},
		{"/boom", http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantError, errorBody(t, resp))
		})
	}

	// Internal details are logged, never returned.
	assert.Contains(t, buf.String(), "relation does not exist")
}

func TestRequestLogger_LogsFinalStatus(t *testing.T) {
	var buf bytes.Buffer
	app := newTestApp(zerolog.New(&buf))
	app.Get("/missing", func(c *fiber.Ctx) error { return errs.NewNotFoundError("gone") })

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set(middleware.HeaderRequestID, "req-42")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "API", entry["message"])
	assert.Equal(t, float64(http.StatusNotFound), entry["status"])
	assert.Equal(t, "req-42", entry["request_id"])
}

func TestAuthRequired(t *testing.T) {
	authService := services.NewAuthService(nil, "test_jwt_secret")
	app := newTestApp(zerolog.Nop())
	app.Get("/private", middleware.AuthRequired(authService, zerolog.Nop()), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"invalid token", "Bearer not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Contains(t, string(raw), `"error"`)
		})
	}
}
