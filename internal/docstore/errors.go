package docstore

import "errors"

var (
	// ErrEmptyText is returned for empty document or query text.
	ErrEmptyText = errors.New("text must not be empty")

	// ErrInvalidTopK is returned when fewer than one result is requested.
	ErrInvalidTopK = errors.New("top_k must be at least 1")

	// ErrDimensionMismatch is returned when an embedding does not match the store dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrIndexOutOfSync marks vectors and documents that no longer line up.
	ErrIndexOutOfSync = errors.New("index and documents out of sync")

	// ErrNoSnapshot is returned by a Snapshotter that has nothing persisted yet.
	ErrNoSnapshot = errors.New("no snapshot")

	// ErrLocked is returned when another process holds the index directory.
	ErrLocked = errors.New("index directory is locked")
)
