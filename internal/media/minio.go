package media

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/gravadigital/votacion-api/internal/config"
	"github.com/gravadigital/votacion-api/internal/logger"
)

// MinIOStore puts images into an S3 compatible bucket
type MinIOStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
	log       *log.Logger
}

// NewMinIOStore connects and creates the bucket when missing
func NewMinIOStore(ctx context.Context, cfg *config.Config) (*MinIOStore, error) {
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	store := &MinIOStore{
		client:    client,
		bucket:    cfg.MinIO.Bucket,
		publicURL: publicBaseURL(cfg),
		log:       logger.Storage("minio"),
	}
	if err := store.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func publicBaseURL(cfg *config.Config) string {
	if cfg.MinIO.PublicURL != "" {
		return strings.TrimRight(cfg.MinIO.PublicURL, "/")
	}
	scheme := "http"
	if cfg.MinIO.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, cfg.MinIO.Endpoint, cfg.MinIO.Bucket)
}

func (s *MinIOStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	s.log.Info("bucket created", "bucket", s.bucket)
	return nil
}

func (s *MinIOStore) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	info, err := s.client.PutObject(ctx, s.bucket, name, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	s.log.Debug("image uploaded", "bucket", s.bucket, "object", info.Key, "size", info.Size)
	return s.publicURL + "/" + name, nil
}

func (s *MinIOStore) Remove(ctx context.Context, name string) error {
	return s.client.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{})
}
