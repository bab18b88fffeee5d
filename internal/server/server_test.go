package server_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"productsapi/internal/config"
	"productsapi/internal/database"
	"productsapi/internal/middleware"
	"productsapi/internal/models"
	"productsapi/internal/server"
	"productsapi/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedEvent struct {
	event     string
	productID uint
}

// recordingPublisher keeps every published event in order.
type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) PublishProductEvent(_ context.Context, event string, product *models.Product) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{event: event, productID: product.ID})
	return nil
}

func newApp(t *testing.T, frontendURL string, publisher services.EventPublisher) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	dbCfg := config.DatabaseConfig{Driver: "sqlite", URL: dsn}
	db, err := database.Open(dbCfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	app, err := server.New(server.Options{
		Config: &config.Config{
			Server:   config.ServerConfig{Port: ":0", FrontendURL: frontendURL},
			Database: dbCfg,
			Log:      config.LogConfig{Level: "error", Format: "json"},
		},
		DB:        db,
		Logger:    zerolog.Nop(),
		Publisher: publisher,
	})
	require.NoError(t, err)
	return app
}

func get(t *testing.T, app *fiber.App, path string, headers ...string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAPIRoot(t *testing.T) {
	app := newApp(t, "", nil)

	resp := get(t, app, "/api")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, server.MsgAPI, body["msg"])
}

func TestHealth(t *testing.T) {
	app := newApp(t, "", nil)

	resp := get(t, app, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, body["time"])
}

func TestDocs(t *testing.T) {
	app := newApp(t, "", nil)

	resp := get(t, app, "/docs")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/html")
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "swagger-ui")

	resp = get(t, app, "/docs/openapi.json")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var spec map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&spec))
	assert.Equal(t, "3.0.2", spec["openapi"])
}

func TestMetrics(t *testing.T) {
	app := newApp(t, "", nil)

	get(t, app, "/api/products")

	resp := get(t, app, "/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "http_requests_total")
	assert.Contains(t, string(raw), `route="/api/products`)
}

func TestCORS(t *testing.T) {
	t.Run("allows the configured frontend", func(t *testing.T) {
		app := newApp(t, "http://localhost:5173", nil)

		resp := get(t, app, "/api/products", fiber.HeaderOrigin, "http://localhost:5173")
		assert.Equal(t, "http://localhost:5173", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	})

	t.Run("other origins get no allow header", func(t *testing.T) {
		app := newApp(t, "http://localhost:5173", nil)

		resp := get(t, app, "/api/products", fiber.HeaderOrigin, "http://evil.example")
		assert.Empty(t, resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	})

	t.Run("no frontend configured", func(t *testing.T) {
		app := newApp(t, "", nil)

		resp := get(t, app, "/api/products", fiber.HeaderOrigin, "http://localhost:5173")
		assert.Empty(t, resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	})
}

func TestRequestID(t *testing.T) {
	app := newApp(t, "", nil)

	resp := get(t, app, "/api")
	_, err := uuid.Parse(resp.Header.Get(middleware.HeaderRequestID))
	assert.NoError(t, err)

	resp = get(t, app, "/api", middleware.HeaderRequestID, "req-123")
	assert.Equal(t, "req-123", resp.Header.Get(middleware.HeaderRequestID))
}

func TestUnknownRouteIs404(t *testing.T) {
	app := newApp(t, "", nil)

	resp := get(t, app, "/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProductEventsArePublished(t *testing.T) {
	publisher := &recordingPublisher{}
	app := newApp(t, "", publisher)

	send := func(method, path, body string) *http.Response {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	resp := send(http.MethodPost, "/api/products", `{"name":"Mouse","price":25}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	send(http.MethodPut, "/api/products/1", `{"name":"Mouse","price":30,"availability":true}`)
	send(http.MethodPatch, "/api/products/1", "")
	send(http.MethodDelete, "/api/products/1", "")
	// A failed mutation publishes nothing.
	send(http.MethodDelete, "/api/products/1", "")

	assert.Equal(t, []recordedEvent{
		{event: services.EventProductCreated, productID: 1},
		{event: services.EventProductUpdated, productID: 1},
		{event: services.EventProductAvailabilityToggled, productID: 1},
		{event: services.EventProductDeleted, productID: 1},
	}, publisher.events)
}
