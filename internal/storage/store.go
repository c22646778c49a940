package storage

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrObjectExists is returned when an upload targets a path that is already taken.
	ErrObjectExists = errors.New("object already exists")
	// ErrObjectNotFound is returned for paths that hold no object.
	ErrObjectNotFound = errors.New("object not found")
	// ErrInvalidPath is returned for empty paths or paths escaping the bucket.
	ErrInvalidPath = errors.New("invalid object path")
)

// ObjectStore is a bucket of public objects addressed by slash-separated paths.
type ObjectStore interface {
	// Upload writes a new object. Existing objects are never overwritten.
	Upload(ctx context.Context, path string, r io.Reader) (int64, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Remove(ctx context.Context, path string) error
	// PublicURL is the address the object is served from.
	PublicURL(path string) string
}
