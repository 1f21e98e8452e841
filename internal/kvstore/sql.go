package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/chatbridge/internal/constants"
	"github.com/yasinhessnawi1/chatbridge/internal/database"
	"github.com/yasinhessnawi1/chatbridge/internal/utils"
)

// SQLStore keeps records in the kv_entries table. Expired rows are filtered
// on read and removed by Sweep.
type SQLStore struct {
	db  *database.Pool
	now func() time.Time

	getQuery    string
	upsertQuery string
	insertQuery string
	deleteQuery string
	purgeQuery  string
	sweepQuery  string
}

// NewSQLStore builds a store on an already migrated pool.
func NewSQLStore(db *database.Pool) *SQLStore {
	table := constants.TableKVEntries
	k, v, exp := constants.ColumnKey, constants.ColumnValue, constants.ColumnExpiresAt

	insert := fmt.Sprintf("INSERT INTO %s (%s, %s, %s) VALUES (?, ?, ?)", table, k, v, exp)

	var upsert string
	if db.IsPostgres() {
		upsert = fmt.Sprintf("%s ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s, %s = EXCLUDED.%s",
			insert, k, v, v, exp, exp)
	} else {
		upsert = fmt.Sprintf("%s ON DUPLICATE KEY UPDATE %s = VALUES(%s), %s = VALUES(%s)",
			insert, v, v, exp, exp)
	}

	return &SQLStore{
		db:  db,
		now: time.Now,

		getQuery: db.Rebind(fmt.Sprintf(
			"SELECT %s FROM %s WHERE %s = ? AND (%s IS NULL OR %s > ?)", v, table, k, exp, exp)),
		upsertQuery: db.Rebind(upsert),
		insertQuery: db.Rebind(insert),
		deleteQuery: db.Rebind(fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table, k)),
		purgeQuery: db.Rebind(fmt.Sprintf(
			"DELETE FROM %s WHERE %s = ? AND %s IS NOT NULL AND %s <= ?", table, k, exp, exp)),
		sweepQuery: db.Rebind(fmt.Sprintf(
			"DELETE FROM %s WHERE %s IS NOT NULL AND %s <= ?", table, exp, exp)),
	}
}

// Get returns the value for a live row.
func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	var value []byte
	err := s.db.QueryRowContext(ctx, s.getQuery, key, s.now().UTC()).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return value, nil
}

// Set upserts the row for key.
func (s *SQLStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, s.upsertQuery, key, value, s.expiry(ttl)); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

// SetIfAbsent removes an expired row for key, then inserts. The primary key
// makes concurrent inserts for the same key fail for all but one caller.
func (s *SQLStore) SetIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, s.purgeQuery, key, s.now().UTC()); err != nil {
		return false, fmt.Errorf("failed to purge expired key %s: %w", key, err)
	}

	_, err := s.db.ExecContext(ctx, s.insertQuery, key, value, s.expiry(ttl))
	if utils.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert key %s: %w", key, err)
	}
	return true, nil
}

// Delete removes the row for key.
func (s *SQLStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, s.deleteQuery, key); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// Sweep deletes every expired row.
func (s *SQLStore) Sweep(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	result, err := s.db.ExecContext(ctx, s.sweepQuery, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired keys: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		log.Warn().Err(err).Msg("Could not read swept row count")
		return 0, nil
	}
	return int(removed), nil
}

// Ping runs the pool health check.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.HealthCheck(ctx)
}

// Close closes the pool.
func (s *SQLStore) Close() error {
	s.db.Close()
	return nil
}

func (s *SQLStore) expiry(ttl time.Duration) sql.NullTime {
	if ttl <= 0 {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: s.now().Add(ttl).UTC(), Valid: true}
}
