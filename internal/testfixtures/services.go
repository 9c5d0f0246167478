package testfixtures

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/example/room-scheduler/internal/application"
	"github.com/example/room-scheduler/internal/persistence"
	"github.com/example/room-scheduler/internal/persistence/memory"
)

// ErrInjected is returned by RecordingBlobStore when a failure is armed.
var ErrInjected = errors.New("testfixtures: injected failure")

// RecordingBlobStore wraps a BlobStore, counts saves per key and can be
// armed to fail.
type RecordingBlobStore struct {
	persistence.BlobStore

	mu        sync.Mutex
	saves     map[string]int
	failSaves bool
	failLoads bool
}

// NewRecordingBlobStore wraps inner, or a fresh memory store when inner is nil.
func NewRecordingBlobStore(inner persistence.BlobStore) *RecordingBlobStore {
	if inner == nil {
		inner = memory.New()
	}
	return &RecordingBlobStore{BlobStore: inner, saves: make(map[string]int)}
}

// FailSaves makes subsequent Save calls fail with ErrInjected.
func (r *RecordingBlobStore) FailSaves(fail bool) {
	r.mu.Lock()
	r.failSaves = fail
	r.mu.Unlock()
}

// FailLoads makes subsequent Load calls fail with ErrInjected.
func (r *RecordingBlobStore) FailLoads(fail bool) {
	r.mu.Lock()
	r.failLoads = fail
	r.mu.Unlock()
}

// Saves reports how many successful saves were made under key.
func (r *RecordingBlobStore) Saves(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves[key]
}

// Load delegates to the wrapped store unless loads are armed to fail.
func (r *RecordingBlobStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	r.mu.Lock()
	fail := r.failLoads
	r.mu.Unlock()
	if fail {
		return nil, false, ErrInjected
	}
	return r.BlobStore.Load(ctx, key)
}

// Save delegates to the wrapped store unless saves are armed to fail.
func (r *RecordingBlobStore) Save(ctx context.Context, key string, data []byte) error {
	r.mu.Lock()
	fail := r.failSaves
	r.mu.Unlock()
	if fail {
		return ErrInjected
	}
	if err := r.BlobStore.Save(ctx, key, data); err != nil {
		return err
	}
	r.mu.Lock()
	r.saves[key]++
	r.mu.Unlock()
	return nil
}

// ServiceFactory assists tests with constructing stores using deterministic
// identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// StoreDeps captures the overridable collaborators of a test store. Zero
// values select the fixture catalog, an empty seed, a fresh recording memory
// store, and a discarding logger.
type StoreDeps struct {
	Blobs   persistence.BlobStore
	Rooms   []application.Room
	NoRooms bool
	Seed    application.Seed
	Logger  *slog.Logger
}

// NewReservationStore opens a store wired to the factory's clock and id
// generator. The store is closed when the test ends.
func (f *ServiceFactory) NewReservationStore(tb testing.TB, deps StoreDeps) *application.ReservationStore {
	tb.Helper()

	if deps.Blobs == nil {
		deps.Blobs = NewRecordingBlobStore(nil)
	}
	rooms := deps.Rooms
	if rooms == nil && !deps.NoRooms {
		rooms = Rooms()
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	store, err := application.OpenReservationStore(context.Background(), application.StoreDeps{
		Blobs:       deps.Blobs,
		Rooms:       rooms,
		Seed:        deps.Seed,
		IDGenerator: f.IDGenerator.NextFunc(),
		Now:         f.Clock.NowFunc(),
		Logger:      logger,
	})
	if err != nil {
		tb.Fatalf("failed to open reservation store: %v", err)
	}
	tb.Cleanup(store.Close)
	return store
}
