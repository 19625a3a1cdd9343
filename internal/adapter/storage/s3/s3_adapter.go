package s3

import (
	"context"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/stay-service/internal/platform/logger"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

const defaultURLExpiry = 15 * time.Minute

// Options configure NewS3Storage.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	URLExpiry time.Duration
}

// S3Storage serves house images out of a MinIO bucket.
type S3Storage struct {
	client *minio.Client
	bucket string
	expiry time.Duration
	logger *logger.Logger
}

func NewS3Storage(ctx context.Context, opts Options, log *logger.Logger) (*S3Storage, error) {
	log = log.Named("S3Storage")
	log.Info("Initializing S3 MinIO Storage",
		zap.String("endpoint", opts.Endpoint),
		zap.String("bucket", opts.Bucket),
		zap.Bool("use_ssl", opts.UseSSL))

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", opts.Endpoint, err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", opts.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to make bucket %s: %w", opts.Bucket, err)
		}
		log.Info("S3Storage: bucket created", zap.String("bucket", opts.Bucket))
	}

	expiry := opts.URLExpiry
	if expiry <= 0 {
		expiry = defaultURLExpiry
	}
	return &S3Storage{client: client, bucket: opts.Bucket, expiry: expiry, logger: log}, nil
}

// ImageURL returns a time-limited GET URL for the object. An empty name yields "".
func (s *S3Storage) ImageURL(ctx context.Context, objectName string) (string, error) {
	if objectName == "" {
		return "", nil
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectName, s.expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign %s/%s: %w", s.bucket, objectName, err)
	}
	return u.String(), nil
}

// RemoveImage deletes the object. A missing object is not an error.
func (s *S3Storage) RemoveImage(ctx context.Context, objectName string) error {
	if objectName == "" {
		return nil
	}
	err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil
		}
		s.logger.Error("S3Storage: RemoveObject failed", zap.String("key", objectName), zap.Error(err))
		return fmt.Errorf("failed to remove object %s from bucket %s: %w", objectName, s.bucket, err)
	}
	return nil
}
