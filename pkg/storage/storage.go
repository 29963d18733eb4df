package storage

import (
	"context"
	"time"
)

// PresignedRequest is what a browser needs to upload directly to the bucket.
type PresignedRequest struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
}

// ObjectStorage is the subset of object storage the API relies on.
type ObjectStorage interface {
	PresignUpload(ctx context.Context, key string, contentType string) (*PresignedRequest, error)
	PresignDownload(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}
