package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/jatinbhagat/decipherworld-backend/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type S3Client struct {
	client *minio.Client
	config *config.S3Config
}

func NewS3Client(cfg *config.S3Config) (*S3Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	return &S3Client{
		client: client,
		config: cfg,
	}, nil
}

func (c *S3Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.client.BucketExists(ctx, c.config.Bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = c.client.MakeBucket(ctx, c.config.Bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

func (c *S3Client) UploadArtifact(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	_, err := c.client.PutObject(ctx, c.config.Bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload artifact: %w", err)
	}

	return nil
}

// DownloadArtifact opens the stored object for reading. minio defers the
// existence check to the first read, so a missing key surfaces there, and a
// Stat call up front makes it an immediate error instead.
func (c *S3Client) DownloadArtifact(ctx context.Context, objectName string) (io.ReadCloser, error) {
	if _, err := c.client.StatObject(ctx, c.config.Bucket, objectName, minio.StatObjectOptions{}); err != nil {
		return nil, fmt.Errorf("failed to stat artifact: %w", err)
	}

	object, err := c.client.GetObject(ctx, c.config.Bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to download artifact: %w", err)
	}

	return object, nil
}

func (c *S3Client) GetClient() *minio.Client {
	return c.client
}
