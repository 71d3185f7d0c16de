// Package storage holds receipt attachments for liquidation requests. The
// workflow layer only orchestrates the metadata lifecycle; bytes live behind
// this interface.
package storage

import (
	"context"
	"io"
	"time"
)

type FileStorage interface {
	// Upload stores a file under key and returns the stored key.
	Upload(ctx context.Context, file io.Reader, key string, size int64, contentType string) (string, error)

	// Download retrieves a file by key.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a file. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// GetURL returns a presigned or public URL for the key.
	GetURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}
