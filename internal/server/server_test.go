package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/chatbridge/internal/config"
	"github.com/yasinhessnawi1/chatbridge/internal/constants"
	"github.com/yasinhessnawi1/chatbridge/internal/handlers"
	"github.com/yasinhessnawi1/chatbridge/internal/kvstore"
)

var testBuild = handlers.BuildInfo{Version: "1.2.3", Commit: "abc123", BuildDate: "2024-01-01"}

// createTestConfig returns a configuration that runs entirely in memory
// with a cheap password hash.
func createTestConfig() *config.AppConfig {
	return &config.AppConfig{
		App: config.AppSettings{
			Environment: constants.EnvTesting,
			Name:        "chatbridge",
			Version:     "1.2.3",
		},
		Server: config.ServerSettings{
			Host:            "127.0.0.1",
			Port:            0,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    5 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			IdleTimeout:     5 * time.Second,
		},
		Session: config.SessionSettings{
			Secret:     "test-session-secret-that-is-long-enough",
			CookieName: "chatbridge_session",
			TTL:        time.Hour,
			Issuer:     "chatbridge",
		},
		Store: config.StoreSettings{
			Backend:         constants.StoreBackendMemory,
			CleanupInterval: time.Minute,
		},
		PasswordHash: config.HashSettings{
			Memory:      1024,
			Iterations:  1,
			Parallelism: 1,
			SaltLength:  16,
			KeyLength:   32,
		},
		Reset: config.ResetSettings{CodeTTL: 5 * time.Minute},
		Mail:  config.MailSettings{Provider: constants.MailProviderLog},
		RateLimit: config.RateLimitSettings{
			Enabled:           false,
			RequestsPerMinute: 60,
			Burst:             10,
		},
		Logging: config.LoggingSettings{Level: "error"},
	}
}

func newTestServer(t *testing.T, cfg *config.AppConfig) (*Server, *kvstore.MemoryStore) {
	t.Helper()

	store := kvstore.NewMemoryStore()
	s, err := newServer(cfg, store, testBuild)
	require.NoError(t, err)
	return s, store
}

// closeCountingStore records Close calls on top of a memory store.
type closeCountingStore struct {
	*kvstore.MemoryStore
	closed   int32
	closeErr error
}

func (s *closeCountingStore) Close() error {
	atomic.AddInt32(&s.closed, 1)
	return s.closeErr
}

func TestNewServer(t *testing.T) {
	t.Run("Builds all components on the memory store", func(t *testing.T) {
		s, err := NewServer(context.Background(), createTestConfig(), testBuild)
		require.NoError(t, err)

		assert.NotNil(t, s.Store)
		assert.NotNil(t, s.GetRouter())
		assert.NotNil(t, s.Handlers.AuthHandler)
		assert.NotNil(t, s.Handlers.ResetHandler)
		assert.NotNil(t, s.Handlers.ChatHandler)
		assert.NotNil(t, s.Handlers.SystemHandler)
		assert.Nil(t, s.Handlers.PageHandler)
		assert.Nil(t, s.limiters)
		assert.False(t, s.services.chatService.Configured())
		assert.Equal(t, "127.0.0.1:0", s.httpServer.Addr)
	})

	t.Run("Unsupported backend", func(t *testing.T) {
		cfg := createTestConfig()
		cfg.Store.Backend = "etcd"

		_, err := NewServer(context.Background(), cfg, testBuild)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to set up store")
	})

	t.Run("Missing session secret", func(t *testing.T) {
		cfg := createTestConfig()
		cfg.Session.Secret = ""

		_, err := newServer(cfg, kvstore.NewMemoryStore(), testBuild)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "session secret")
	})

	t.Run("Unknown mail provider", func(t *testing.T) {
		cfg := createTestConfig()
		cfg.Mail.Provider = "pigeon"

		_, err := newServer(cfg, kvstore.NewMemoryStore(), testBuild)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mailer")
	})

	t.Run("Missing static directory", func(t *testing.T) {
		cfg := createTestConfig()
		cfg.Server.StaticDir = t.TempDir() + "/missing"

		_, err := newServer(cfg, kvstore.NewMemoryStore(), testBuild)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "static directory")
	})

	t.Run("Configured chat and rate limits", func(t *testing.T) {
		cfg := createTestConfig()
		cfg.Chat.APIKey = "key"
		cfg.RateLimit.Enabled = true

		s, _ := newTestServer(t, cfg)
		assert.True(t, s.services.chatService.Configured())
		require.NotNil(t, s.limiters)
	})
}

func TestServer_RunMaintenance(t *testing.T) {
	cfg := createTestConfig()
	cfg.RateLimit.Enabled = true
	s, store := newTestServer(t, cfg)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "short", []byte("x"), time.Millisecond))
	require.NoError(t, store.Set(ctx, "long", []byte("y"), 0))
	s.limiters.GetLimiter("203.0.113.1", constants.RateCategoryChat)

	time.Sleep(5 * time.Millisecond)
	s.runMaintenance(ctx)

	assert.Equal(t, 1, store.Len())
	value, err := store.Get(ctx, "long")
	require.NoError(t, err)
	assert.Equal(t, []byte("y"), value)

	// Fresh limiters survive a pass
	assert.Equal(t, 1, s.limiters.Len())
}

func TestServer_MaintenanceLoop(t *testing.T) {
	cfg := createTestConfig()
	cfg.Store.CleanupInterval = 5 * time.Millisecond
	s, store := newTestServer(t, cfg)

	require.NoError(t, store.Set(context.Background(), "short", []byte("x"), time.Millisecond))

	s.SetupMaintenanceTasks()
	s.SetupMaintenanceTasks() // second call is a no-op

	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)

	s.stopMaintenanceTasks()
	assert.Nil(t, s.stopMaintenance)
}

func TestServer_Shutdown(t *testing.T) {
	t.Run("Closes the store", func(t *testing.T) {
		store := &closeCountingStore{MemoryStore: kvstore.NewMemoryStore()}
		s, err := newServer(createTestConfig(), store, testBuild)
		require.NoError(t, err)

		s.SetupMaintenanceTasks()

		require.NoError(t, s.Shutdown(context.Background()))
		assert.Equal(t, int32(1), atomic.LoadInt32(&store.closed))
		assert.Nil(t, s.stopMaintenance)
	})

	t.Run("Reports close failures", func(t *testing.T) {
		store := &closeCountingStore{MemoryStore: kvstore.NewMemoryStore(), closeErr: errors.New("boom")}
		s, err := newServer(createTestConfig(), store, testBuild)
		require.NoError(t, err)

		err = s.Shutdown(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to close store")
	})
}

func TestServer_HealthReflectsStore(t *testing.T) {
	s, _ := newTestServer(t, createTestConfig())

	rr := httptest.NewRecorder()
	s.GetRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, constants.HealthPath, nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"healthy"`)
	assert.Contains(t, rr.Body.String(), `"store":"memory"`)
}
