package storage

import (
	"context"
	"io"
	"time"
)

// FileInfo contains metadata about a stored object.
type FileInfo struct {
	Path         string
	Size         int64
	LastModified time.Time
	ContentType  string
}

// Storage defines the object storage operations used for recordings.
type Storage interface {
	// Upload writes data from reader to the given path.
	Upload(ctx context.Context, path string, reader io.Reader, contentType string) error

	// Download returns a reader for the object at the given path.
	// The caller is responsible for closing the returned ReadCloser.
	// A missing object yields a NOT_FOUND AppError.
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the object at the given path.
	// Returns nil if the object does not exist.
	Delete(ctx context.Context, path string) error

	// Exists checks whether an object exists at the given path.
	Exists(ctx context.Context, path string) (bool, error)

	// List returns metadata for all objects whose path starts with prefix,
	// sorted by path.
	List(ctx context.Context, prefix string) ([]FileInfo, error)
}

// UploadPresigner is implemented by backends that can hand out a
// time-limited URL a client may PUT an object to directly.
type UploadPresigner interface {
	PresignPut(ctx context.Context, path, contentType string, expiry time.Duration) (string, error)
}
