package minio

import (
    "context"
    "fmt"
    "io"

    "github.com/minio/minio-go/v7"
    "github.com/minio/minio-go/v7/pkg/credentials"

    "github.com/zubenkoruslan/hospitalitai-sub007/pkg/logger"
)

type Config struct {
    Bucket    string
    Region    string
    Endpoint  string
    AccessKey string
    SecretKey string
    UseSSL    bool
}

type MinioStorage struct {
    client     *minio.Client
    bucketName string
    logger     logger.Logger
}

// NewMinioStorage connects and creates the bucket when it is missing.
func NewMinioStorage(ctx context.Context, cfg Config, log logger.Logger) (*MinioStorage, error) {
    client, err := minio.New(cfg.Endpoint, &minio.Options{
        Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
        Secure: cfg.UseSSL,
        Region: cfg.Region,
    })
    if err != nil {
        return nil, fmt.Errorf("failed to create MinIO client: %w", err)
    }

    exists, err := client.BucketExists(ctx, cfg.Bucket)
    if err != nil {
        return nil, fmt.Errorf("failed to check bucket existence: %w", err)
    }
    if !exists {
        if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
            return nil, fmt.Errorf("failed to create bucket: %w", err)
        }
        log.Info("created bucket", logger.String("bucket", cfg.Bucket))
    }

    return &MinioStorage{client: client, bucketName: cfg.Bucket, logger: log}, nil
}

func (m *MinioStorage) Store(ctx context.Context, reader io.Reader, key string) (string, error) {
    _, err := m.client.PutObject(ctx, m.bucketName, key, reader, -1, minio.PutObjectOptions{})
    if err != nil {
        m.logger.Error("Failed to store file to MinIO",
            logger.String("bucket", m.bucketName),
            logger.String("key", key),
            logger.Error(err),
        )
        return "", fmt.Errorf("failed to store file: %w", err)
    }
    return key, nil
}

// Get returns the object; minio defers the request until the first read,
// so a Stat surfaces missing keys here.
func (m *MinioStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
    obj, err := m.client.GetObject(ctx, m.bucketName, key, minio.GetObjectOptions{})
    if err == nil {
        _, err = obj.Stat()
    }
    if err != nil {
        m.logger.Error("Failed to get file from MinIO",
            logger.String("bucket", m.bucketName),
            logger.String("key", key),
            logger.Error(err),
        )
        if obj != nil {
            obj.Close()
        }
        return nil, fmt.Errorf("failed to get file: %w", err)
    }
    return obj, nil
}

func (m *MinioStorage) Delete(ctx context.Context, key string) error {
    if err := m.client.RemoveObject(ctx, m.bucketName, key, minio.RemoveObjectOptions{}); err != nil {
        m.logger.Error("Failed to delete file from MinIO",
            logger.String("bucket", m.bucketName),
            logger.String("key", key),
            logger.Error(err),
        )
        return fmt.Errorf("failed to delete file: %w", err)
    }
    return nil
}
