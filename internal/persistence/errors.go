package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")

	// ErrCorruptData is returned when a stored collection cannot be decoded.
	ErrCorruptData = errors.New("persistence: corrupt data")

	// ErrClosed is returned when a backend is used after Close.
	ErrClosed = errors.New("persistence: store closed")
)
