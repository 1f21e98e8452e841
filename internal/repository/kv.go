// Package repository provides typed access to the records kept in the
// key-value store. Every record is stored as JSON under a key prefix that
// names its type.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/chatbridge/internal/kvstore"
)

// getJSON loads key into v. It returns kvstore.ErrNotFound unchanged.
func getJSON(ctx context.Context, store kvstore.Store, key string, v interface{}) error {
	startTime := time.Now()

	data, err := store.Get(ctx, key)
	logStoreOp("get", key, startTime, err)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

// putJSON encodes v and stores it under key.
func putJSON(ctx context.Context, store kvstore.Store, key string, v interface{}, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	startTime := time.Now()
	err = store.Set(ctx, key, data, ttl)
	logStoreOp("set", key, startTime, err)
	return err
}

// putJSONIfAbsent encodes v and stores it only when key holds no record.
func putJSONIfAbsent(ctx context.Context, store kvstore.Store, key string, v interface{}, ttl time.Duration) (bool, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return false, fmt.Errorf("failed to encode %s: %w", key, err)
	}

	startTime := time.Now()
	ok, err := store.SetIfAbsent(ctx, key, data, ttl)
	logStoreOp("set_if_absent", key, startTime, err)
	return ok, err
}

func deleteKey(ctx context.Context, store kvstore.Store, key string) error {
	startTime := time.Now()
	err := store.Delete(ctx, key)
	logStoreOp("delete", key, startTime, err)
	return err
}

// logStoreOp logs a store call at debug level. Keys of user records contain
// email addresses, so only the prefix is logged.
func logStoreOp(op, key string, startTime time.Time, err error) {
	event := log.Debug()
	if err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		event = log.Error().Err(err)
	}

	event.
		Str("op", op).
		Str("prefix", keyPrefix(key)).
		Dur("duration", time.Since(startTime)).
		Msg("Store operation")
}

func keyPrefix(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] == ':' {
			return key[:i+1]
		}
	}
	return key
}
