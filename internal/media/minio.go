// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioUploader implements [Uploader] against a MinIO / S3-compatible bucket.
type MinioUploader struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

// MinioConfig carries the connection settings for the media host.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool

	// PublicBaseURL is the base URL clients use to fetch objects, typically a
	// CDN. When empty, URLs are built from the endpoint itself.
	PublicBaseURL string
}

// NewMinioUploader constructs the media host client and verifies the bucket exists.
func NewMinioUploader(ctx context.Context, cfg MinioConfig, logger *slog.Logger) (*MinioUploader, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, fmt.Errorf("media: endpoint is required")
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("media: bucket is required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("media: failed to create client: %w", err)
	}

	uploader := &MinioUploader{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: resolvePublicBaseURL(cfg),
	}

	// Fail fast at startup rather than on the first upload.
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("media: failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("media: failed to create bucket %q: %w", cfg.Bucket, err)
		}
	}

	logger.Info("media host connected",
		slog.String("endpoint", cfg.Endpoint),
		slog.String("bucket", cfg.Bucket),
	)

	return uploader, nil
}

// Upload implements [Uploader]. It streams the object into the bucket and
// returns the public URL where the object can be fetched.
func (m *MinioUploader) Upload(ctx context.Context, folder, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	key := ObjectKey(folder, filename)

	_, err := m.client.PutObject(ctx, m.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("media: failed to upload %q: %w", key, err)
	}

	return m.publicBaseURL + "/" + m.bucket + "/" + key, nil
}

// Delete removes a previously uploaded object by its key.
func (m *MinioUploader) Delete(ctx context.Context, key string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("media: failed to delete %q: %w", key, err)
	}
	return nil
}

// Ping verifies the media host is reachable. Used by the readiness probe.
func (m *MinioUploader) Ping(ctx context.Context) error {
	if _, err := m.client.BucketExists(ctx, m.bucket); err != nil {
		return fmt.Errorf("media: ping failed: %w", err)
	}
	return nil
}

// resolvePublicBaseURL picks the base URL for public object links.
func resolvePublicBaseURL(cfg MinioConfig) string {
	if cfg.PublicBaseURL != "" {
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	}

	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return scheme + "://" + cfg.Endpoint
}
