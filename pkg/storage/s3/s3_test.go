package s3

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/iZhuoxx/AI-web/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	s, err := New(context.Background(), config.StorageConfig{
		Bucket:          "notes",
		Region:          "us-east-1",
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio-secret",
		PresignTTL:      5 * time.Minute,
	})
	require.NoError(t, err)
	return s
}

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(context.Background(), config.StorageConfig{Region: "us-east-1"})
	assert.Error(t, err)
}

func TestPresignUploadIsPathStylePut(t *testing.T) {
	s := newTestStorage(t)
	req, err := s.PresignUpload(context.Background(), "users/u/notebooks/n/x-a.pdf", "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "PUT", req.Method)
	assert.True(t, strings.HasPrefix(req.URL, "http://localhost:9000/notes/users/u/notebooks/n/x-a.pdf?"), req.URL)
	assert.Contains(t, req.URL, "X-Amz-Signature=")
	assert.Equal(t, "application/pdf", req.Headers["Content-Type"])
}

func TestPresignDownloadUsesTTL(t *testing.T) {
	s := newTestStorage(t)
	url, err := s.PresignDownload(context.Background(), "k.txt", 900*time.Second)
	require.NoError(t, err)
	assert.Contains(t, url, "X-Amz-Expires=900")
}
