package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/room-scheduler/internal/persistence/sqlite"
)

// NewSQLiteStore opens a migrated SQLite blob store in a temporary directory.
// The store is closed when the test ends.
func NewSQLiteStore(tb testing.TB) *sqlite.Store {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "scheduler.db")
	store, err := sqlite.Open(context.Background(), sqlite.TempFileTestConfig(path))
	if err != nil {
		tb.Fatalf("failed to open sqlite store: %v", err)
	}
	tb.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
