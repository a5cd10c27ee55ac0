package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog/config"
	"catalog/internal/middleware"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	var cfg config.Config
	cfg.Server.Address = "127.0.0.1"
	cfg.Server.HTTPPort = "0"
	cfg.Logging.Level = "error"
	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = filepath.Join(t.TempDir(), "catalog.db")
	cfg.Database.LogLevel = "silent"
	cfg.Metrics.Enabled = true
	cfg.Metrics.Path = "/metrics"
	return &cfg
}

func setupApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()

	app := &App{}
	require.NoError(t, app.Initialize(cfg))
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func TestApp_Endpoints(t *testing.T) {
	app := setupApp(t, testConfig(t))

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	body, _ := json.Marshal(map[string]string{"name": "gateway"})
	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/product", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "catalog_products_created_total"))
	assert.True(t, strings.Contains(rec.Body.String(), "catalog_http_requests_total"))
}

func TestApp_MetricsDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Metrics.Enabled = false
	app := setupApp(t, cfg)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApp_InitializeFailsOnBadDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Driver = "oracle"

	app := &App{}
	assert.Error(t, app.Initialize(cfg))
}

func TestApp_RunRequiresInitialize(t *testing.T) {
	app := &App{}
	assert.Error(t, app.Run())
}

func TestApp_RunAndStop(t *testing.T) {
	app := setupApp(t, testConfig(t))

	done := make(chan error, 1)
	go func() { done <- app.Run() }()

	time.Sleep(100 * time.Millisecond)
	app.Stop()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
	// Run закрывает БД при выходе
	assert.Nil(t, app.db)
}
