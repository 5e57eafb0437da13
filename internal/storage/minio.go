package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/portfoliokit/portfolio/internal/config"
)

// ImageStorage relays uploaded images to a MinIO bucket and hands back the
// public URL plus the object key the record stores for later deletion.
type ImageStorage struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewImageStorage creates the storage client and ensures the bucket exists.
func NewImageStorage(cfg config.StorageConfig) (*ImageStorage, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("storage endpoint missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	s := &ImageStorage{client: mc, bucket: cfg.Bucket, publicURL: strings.TrimRight(cfg.PublicURL, "/")}
	// ensure bucket exists (idempotent)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		// ignore "already exists" style errors
		exist, xerr := mc.BucketExists(ctx, s.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return s, nil
}

// Upload stores an image under a fresh key derived from the original filename
// and returns (publicURL, objectKey).
func (s *ImageStorage) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, string, error) {
	key := fmt.Sprintf("images/%s%s", uuid.NewString(), path.Ext(filename))
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", "", fmt.Errorf("minio put: %w", err)
	}
	return s.URLFor(key), key, nil
}

// Remove deletes a previously uploaded object. Missing objects are not an error.
func (s *ImageStorage) Remove(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

// URLFor maps an object key to the URL served to browsers. When no public
// base URL is configured the caller should use PresignedURL instead.
func (s *ImageStorage) URLFor(key string) string {
	if s.publicURL == "" {
		return "/" + s.bucket + "/" + key
	}
	return s.publicURL + "/" + s.bucket + "/" + key
}

// PresignedURL returns a presigned GET URL valid for the given duration.
func (s *ImageStorage) PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	reqParams := make(url.Values)
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, key, expires, reqParams)
	if err != nil {
		return "", err
	}
	return presigned.String(), nil
}
