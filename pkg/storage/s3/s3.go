package s3

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/iZhuoxx/AI-web/internal/config"
	"github.com/iZhuoxx/AI-web/pkg/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
)

type Storage struct {
	bucket    string
	ttl       time.Duration
	client    *awss3.Client
	presigner *awss3.PresignClient
}

var _ storage.ObjectStorage = &Storage{}

// New builds a client from static keys when they are configured and from the
// default AWS chain otherwise. A custom endpoint switches to path-style
// addressing for MinIO-like servers.
func New(ctx context.Context, cfg config.StorageConfig) (*Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is not configured")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Storage{
		bucket:    cfg.Bucket,
		ttl:       ttl,
		client:    client,
		presigner: awss3.NewPresignClient(client),
	}, nil
}

func (s *Storage) PresignUpload(ctx context.Context, key string, contentType string) (*storage.PresignedRequest, error) {
	input := &awss3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	req, err := s.presigner.PresignPutObject(ctx, input, awss3.WithPresignExpires(s.ttl))
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	headers := make(map[string]string)
	for name, values := range req.SignedHeader {
		name = http.CanonicalHeaderKey(name)
		if len(values) == 0 || name == "Host" {
			continue
		}
		headers[name] = values[0]
	}
	if contentType != "" {
		headers["Content-Type"] = contentType
	}
	return &storage.PresignedRequest{Method: req.Method, URL: req.URL, Headers: headers}, nil
}

func (s *Storage) PresignDownload(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, awss3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return req.URL, nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}
