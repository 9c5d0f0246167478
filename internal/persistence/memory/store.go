// Package memory provides an in-process persistence.BlobStore.
package memory

import (
	"context"
	"sync"

	"github.com/example/room-scheduler/internal/persistence"
)

// Store keeps blobs in a map. Values are copied on the way in and out.
type Store struct {
	mu     sync.RWMutex
	blobs  map[string][]byte
	closed bool
}

var _ persistence.BlobStore = (*Store)(nil)

// New returns an empty Store.
func New() *Store {
	return &Store{blobs: make(map[string][]byte)}
}

// Load returns the blob stored under key.
func (s *Store) Load(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, false, persistence.ErrClosed
	}
	data, ok := s.blobs[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

// Save replaces the blob stored under key.
func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return persistence.ErrClosed
	}
	s.blobs[key] = append([]byte(nil), data...)
	return nil
}

// Ping reports whether the store is still open.
func (s *Store) Ping(context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return persistence.ErrClosed
	}
	return nil
}

// Close marks the store closed. Subsequent calls fail with persistence.ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
