package kvstore

import (
	"context"
	"fmt"
	"time"

	"github.com/yasinhessnawi1/chatbridge/internal/utils"
)

// EncryptedStore seals values with AES-GCM before handing them to the
// wrapped store. Keys are stored in the clear.
type EncryptedStore struct {
	inner Store
	key   []byte
}

// NewEncryptedStore wraps inner. Only the first 32 bytes of key are used.
func NewEncryptedStore(inner Store, key []byte) (*EncryptedStore, error) {
	if len(key) < utils.EncryptionKeyLength {
		return nil, fmt.Errorf("encryption key must be at least %d bytes, got %d", utils.EncryptionKeyLength, len(key))
	}
	return &EncryptedStore{inner: inner, key: cloneBytes(key)}, nil
}

// Get decrypts the stored value.
func (s *EncryptedStore) Get(ctx context.Context, key string) ([]byte, error) {
	sealed, err := s.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	plain, err := utils.DecryptBytes(sealed, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt value for %s: %w", key, err)
	}
	return plain, nil
}

// Set encrypts and stores value.
func (s *EncryptedStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	sealed, err := utils.EncryptBytes(value, s.key)
	if err != nil {
		return err
	}
	return s.inner.Set(ctx, key, sealed, ttl)
}

// SetIfAbsent encrypts and conditionally stores value.
func (s *EncryptedStore) SetIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	sealed, err := utils.EncryptBytes(value, s.key)
	if err != nil {
		return false, err
	}
	return s.inner.SetIfAbsent(ctx, key, sealed, ttl)
}

func (s *EncryptedStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

func (s *EncryptedStore) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

func (s *EncryptedStore) Close() error {
	return s.inner.Close()
}

// Sweep forwards to the wrapped store when it supports sweeping.
func (s *EncryptedStore) Sweep(ctx context.Context) (int, error) {
	if sweeper, ok := s.inner.(Sweeper); ok {
		return sweeper.Sweep(ctx)
	}
	return 0, nil
}
