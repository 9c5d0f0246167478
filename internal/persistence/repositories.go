package persistence

import "context"

// Keys under which the whole collections are stored.
const (
	ReservationsKey    = "reservations"
	RecurringEventsKey = "recurringEvents"
)

// BlobStore persists opaque serialized collections by key.
//
// Save replaces the whole value stored under key. Load reports ok=false when
// nothing has been stored under key yet.
type BlobStore interface {
	Load(ctx context.Context, key string) (data []byte, ok bool, err error)
	Save(ctx context.Context, key string, data []byte) error
}

// Pinger is implemented by backends that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}
