package storage

import (
	"context"
	"io"
	"time"
)

// Storage defines the interface for article and profile image storage.
type Storage interface {
	// PutObject uploads an object to storage.
	PutObject(ctx context.Context, key string, body io.Reader, contentType string) error
	// GetPresignedURL returns a URL the client can fetch the object from.
	GetPresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// Ensure implementations satisfy Storage
var (
	_ Storage = (*S3Client)(nil)
	_ Storage = (*Memory)(nil)
)
