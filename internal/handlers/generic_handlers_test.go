package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/chatbridge/internal/constants"
	"github.com/yasinhessnawi1/chatbridge/internal/models"
)

func TestSystemHandler_Health(t *testing.T) {
	build := BuildInfo{Version: "1.2.3", Commit: "abc123", BuildDate: "2024-01-01"}

	t.Run("Healthy", func(t *testing.T) {
		handler := NewSystemHandler(&MockPinger{}, constants.StoreBackendMemory, build)

		rr := httptest.NewRecorder()
		handler.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		var data models.HealthResponse
		decodeResponse(t, rr, &data)
		assert.Equal(t, constants.HealthStatusHealthy, data.Status)
		assert.Equal(t, constants.StoreBackendMemory, data.Store)
		assert.Equal(t, "1.2.3", data.Version)
	})

	t.Run("Store down", func(t *testing.T) {
		pinger := &MockPinger{PingFunc: func(context.Context) error { return errors.New("connection refused") }}
		handler := NewSystemHandler(pinger, constants.StoreBackendRedis, build)

		rr := httptest.NewRecorder()
		handler.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		var data models.HealthResponse
		resp := decodeResponse(t, rr, &data)
		assert.Equal(t, constants.HealthStatusUnhealthy, data.Status)
		assert.Equal(t, constants.CodeServiceUnavailable, resp.Error.Code)
	})
}

func TestSystemHandler_Version(t *testing.T) {
	handler := NewSystemHandler(&MockPinger{}, constants.StoreBackendMemory, BuildInfo{Version: "1.2.3", Commit: "abc123", BuildDate: "2024-01-01"})

	rr := httptest.NewRecorder()
	handler.Version(rr, httptest.NewRequest(http.MethodGet, "/version", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var data models.VersionResponse
	decodeResponse(t, rr, &data)
	assert.Equal(t, models.VersionResponse{Version: "1.2.3", Commit: "abc123", BuildDate: "2024-01-01"}, data)
}

func TestPageHandler(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, constants.IndexFile), []byte("<h1>index</h1>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, constants.HomeFile), []byte("<h1>home</h1>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o600))

	handler := NewPageHandler(dir)

	t.Run("Named page", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.File(constants.HomeFile)(rr, httptest.NewRequest(http.MethodGet, constants.PageHome, nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "home")
	})

	t.Run("Index at root", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.File(constants.IndexFile)(rr, httptest.NewRequest(http.MethodGet, constants.PageIndex, nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "index")
	})

	t.Run("Asset", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.Assets(rr, httptest.NewRequest(http.MethodGet, "/app.js", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "console.log")
	})

	t.Run("Missing asset", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.Assets(rr, httptest.NewRequest(http.MethodGet, "/missing.css", nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
