package repository

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrBucketNotFound is returned when the configured bucket does not exist.
	ErrBucketNotFound = errors.New("bucket not found")

	// ErrObjectNotFound is returned when an object key does not exist.
	ErrObjectNotFound = errors.New("object not found")
)

// ObjectStorage defines the blob store used for vlog media.
// Implementations should be provided by the infrastructure layer (e.g., MinIO, S3).
type ObjectStorage interface {
	// Upload stores size bytes read from reader under key.
	// A negative size streams the object with unknown length.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Delete removes an object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
