// Package sqlite stores scheduler collections in a SQLite database using the
// pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/room-scheduler/internal/persistence"
)

// Store implements persistence.BlobStore on a single key/value table.
type Store struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
	retry  *RetryHelper
	now    func() time.Time
}

var _ persistence.BlobStore = (*Store)(nil)

// Open connects to the database described by cfg and applies pending
// migrations.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	pool, err := NewConnectionPool(cfg)
	if err != nil {
		return nil, err
	}

	store := &Store{
		pool:   pool,
		mapper: NewErrorMapper(),
		retry:  NewRetryHelper(DefaultRetryConfig()),
		now:    time.Now,
	}

	if err := store.Migrate(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return store, nil
}

// Load returns the blob stored under key.
func (s *Store) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := s.retry.WithRetry(ctx, func() error {
		return s.pool.DB().QueryRowContext(ctx, `SELECT value FROM blobs WHERE key = ?`, key).Scan(&data)
	})
	if errors.Is(err, persistence.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("sqlite: load %s: %w", key, err)
	}
	return data, true, nil
}

// Save replaces the blob stored under key in a single transaction.
func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	updatedAt := s.now().UTC().Format(time.RFC3339Nano)
	err := s.retry.WithRetry(ctx, func() error {
		return s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO blobs (key, value, updated_at) VALUES (?, ?, ?)
				ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
				key, data, updatedAt,
			)
			return err
		})
	})
	if err != nil {
		return fmt.Errorf("sqlite: save %s: %w", key, err)
	}
	return nil
}

// Ping tests the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.pool.Close()
}
