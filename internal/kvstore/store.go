// Package kvstore provides the key-value persistence used by every repository.
//
// Records are opaque byte slices with an optional time-to-live. A TTL of zero
// means the record never expires. Expired records are invisible to Get even
// before a backend physically removes them.
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/chatbridge/internal/config"
	"github.com/yasinhessnawi1/chatbridge/internal/constants"
	"github.com/yasinhessnawi1/chatbridge/internal/database"
	"github.com/yasinhessnawi1/chatbridge/migrations"
)

// ErrNotFound is returned by Get when a key is absent or expired.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is the contract shared by all backends.
type Store interface {
	// Get returns the value stored under key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// SetIfAbsent stores value only if key holds no live record.
	// It reports whether the value was written.
	SetIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// Sweeper is implemented by backends that need expired records removed
// periodically.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// New builds the backend selected by the configuration. When an encryption
// key is configured the backend is wrapped so values are encrypted at rest.
func New(ctx context.Context, cfg *config.StoreSettings) (Store, error) {
	var (
		store Store
		err   error
	)

	switch cfg.Backend {
	case constants.StoreBackendMemory, "":
		store = NewMemoryStore()

	case constants.StoreBackendRedis:
		store, err = NewRedisStore(ctx, &cfg.Redis)

	case constants.StoreBackendSQL:
		store, err = newSQLStoreFromConfig(ctx, &cfg.Database)

	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	log.Info().Str(constants.LogFieldBackend, backendName(cfg.Backend)).Msg("Key-value store initialized")

	if cfg.EncryptionKey != "" {
		encrypted, err := NewEncryptedStore(store, []byte(cfg.EncryptionKey))
		if err != nil {
			store.Close()
			return nil, err
		}
		return encrypted, nil
	}

	return store, nil
}

// newSQLStoreFromConfig connects to the database and applies pending migrations.
func newSQLStoreFromConfig(ctx context.Context, cfg *config.DatabaseSettings) (Store, error) {
	pool, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := migrations.NewMigrator(pool).RunMigrations(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return NewSQLStore(pool), nil
}

func backendName(backend string) string {
	if backend == "" {
		return constants.StoreBackendMemory
	}
	return backend
}
