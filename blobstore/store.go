// Package blobstore abstracts where result snapshots are kept: in
// memory, on local disk, or in an object store.
//
// Snapshots are small relative to the matrices they describe, so the
// interface moves whole blobs; there is no streaming or random access.
package blobstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations must return an error that satisfies
// errors.Is(err, ErrNotFound).
var ErrNotFound = errors.New("blob not found")

// Store is a named-blob store. Implementations must be safe for
// concurrent use.
type Store interface {
	// Put writes a blob atomically, replacing any existing blob with
	// the same name.
	Put(ctx context.Context, name string, data []byte) error

	// Get reads a whole blob.
	Get(ctx context.Context, name string) ([]byte, error)

	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all blobs with the given prefix,
	// sorted ascending.
	List(ctx context.Context, prefix string) ([]string, error)
}
