package app_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"catalog/internal/app"
	"catalog/internal/config"
	"catalog/internal/database"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordingPublisher) Publish(routingKey string, _ []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	return nil
}

func newTestApp(t *testing.T, publisher services.EventPublisher) (*fiber.App, *gorm.DB) {
	t.Helper()

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver: config.DriverSQLite,
			URL:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		},
		CORS: config.CORSConfig{AllowedOrigin: "http://front.test"},
	}
	db, err := database.Open(cfg.Database)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { database.Close(db) })

	return app.NewApp(app.Options{
		Config:            cfg,
		DB:                db,
		Publisher:         publisher,
		Logger:            zerolog.Nop(),
		DisableRequestLog: true,
	}), db
}

func TestHealth(t *testing.T) {
	application, db := newTestApp(t, nil)

	resp, err := application.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "connected", body["database"])

	require.NoError(t, database.Close(db))
	resp, err = application.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	application, _ := newTestApp(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(`{"name":"Monitor","price":300}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := application.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = application.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "products_created_total")
	assert.Contains(t, string(raw), "http_request_duration_seconds")
}

func TestUnknownRouteIsJSON(t *testing.T) {
	application, _ := newTestApp(t, nil)

	resp, err := application.Test(httptest.NewRequest(http.MethodGet, "/api/nothing", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body["error"])
}

func TestDocsAreServed(t *testing.T) {
	application, _ := newTestApp(t, nil)

	resp, err := application.Test(httptest.NewRequest(http.MethodGet, "/docs/openapi.json", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCORSGate(t *testing.T) {
	application, _ := newTestApp(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Origin", "http://elsewhere.test")
	resp, err := application.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Origin", "http://front.test")
	resp, err = application.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "http://front.test", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestProductEventsArePublished(t *testing.T) {
	publisher := &recordingPublisher{}
	application, _ := newTestApp(t, publisher)

	send := func(method, path, body string) int {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := application.Test(req, -1)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	require.Equal(t, http.StatusCreated, send(http.MethodPost, "/api/products", `{"name":"Monitor","price":300}`))
	require.Equal(t, http.StatusOK, send(http.MethodPut, "/api/products/1", `{"name":"Monitor","price":310,"availability":true}`))
	require.Equal(t, http.StatusOK, send(http.MethodPatch, "/api/products/1", ``))
	require.Equal(t, http.StatusOK, send(http.MethodDelete, "/api/products/1", ``))
	require.Equal(t, http.StatusNotFound, send(http.MethodDelete, "/api/products/1", ``))

	assert.Equal(t, []string{
		services.EventProductCreated,
		services.EventProductUpdated,
		services.EventProductAvailability,
		services.EventProductDeleted,
	}, publisher.keys)
}
