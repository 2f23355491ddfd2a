package storage

import (
	"context"
	"time"
)

// DownloadURLExpiry is how long a presigned export link stays valid.
const DownloadURLExpiry = 15 * time.Minute

// JSONContentType is stored with schedule exports.
const JSONContentType = "application/json"

// FileStorage is the object store schedule exports are written to.
type FileStorage interface {
	PutObject(ctx context.Context, objectKey string, contentType string, body []byte) error

	// GeneratePresignedDownloadURL returns a GET link for objectKey that
	// expires after the given duration, or DownloadURLExpiry when it is zero.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)
}
