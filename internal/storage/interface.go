package storage

import (
	"context"
	"io"
)

//go:generate mockgen -destination=mocks/mock_storage.go -package=mocks zeme/internal/storage Storage

// Storage defines the interface for object storage operations.
type Storage interface {
	// PutObject uploads an object to storage.
	PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	// URL returns the public URL of an object.
	URL(key string) string
}

// Ensure S3Client implements Storage interface
var _ Storage = (*S3Client)(nil)
