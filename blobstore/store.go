package blobstore

import (
	"context"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Store is an abstraction for reading and writing immutable blobs.
type Store interface {
	// Get returns the contents of blob name.
	Get(ctx context.Context, name string) ([]byte, error)
	// Put writes blob name atomically, replacing any previous contents.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes blob name. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	// List returns the names starting with prefix in ascending order.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Pointer tracks the currently published blob name.
type Pointer interface {
	// Current returns the published name, or ErrNotFound if nothing was
	// published yet.
	Current(ctx context.Context) (string, error)
	// Advance publishes name.
	Advance(ctx context.Context, name string) error
}
