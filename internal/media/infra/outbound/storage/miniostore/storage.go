package miniostore

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/davicafu/autostock/internal/media/domain"
)

// Config de conexión a MinIO/S3.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicBaseURL sustituye a endpoint/bucket en las URLs públicas (CDN).
	PublicBaseURL string
}

// ObjectStorage implementa domain.ObjectStorage sobre minio-go.
type ObjectStorage struct {
	client  *minio.Client
	bucket  string
	baseURL string
	log     *zap.Logger
}

var _ domain.ObjectStorage = (*ObjectStorage)(nil)

// NewObjectStorage conecta y crea el bucket si no existe.
func NewObjectStorage(ctx context.Context, cfg Config, log *zap.Logger) (*ObjectStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("could not reach minio: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("could not create bucket %q: %w", cfg.Bucket, err)
		}
		log.Info("🪣 Bucket created", zap.String("bucket", cfg.Bucket))
	}

	baseURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = strings.TrimRight(client.EndpointURL().String(), "/") + "/" + cfg.Bucket
	}
	return &ObjectStorage{client: client, bucket: cfg.Bucket, baseURL: baseURL, log: log}, nil
}

func (s *ObjectStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	info, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("minio put %s: %w", key, err)
	}
	s.log.Debug("Object uploaded", zap.String("key", key), zap.Int64("size", info.Size))
	return nil
}

func (s *ObjectStorage) PublicURL(key string) string {
	return publicURL(s.baseURL, key)
}

// Delete no falla si el objeto ya no existe (S3 responde igual).
func (s *ObjectStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio remove %s: %w", key, err)
	}
	return nil
}

func publicURL(baseURL, key string) string {
	return baseURL + "/" + strings.TrimLeft(key, "/")
}
