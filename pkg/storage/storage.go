package storage

import (
    "context"
    "fmt"
    "io"

    "github.com/zubenkoruslan/hospitalitai-sub007/internal/models"
    "github.com/zubenkoruslan/hospitalitai-sub007/pkg/logger"
    "github.com/zubenkoruslan/hospitalitai-sub007/pkg/storage/minio"
    "github.com/zubenkoruslan/hospitalitai-sub007/pkg/storage/s3"
)

type StorageType string

const (
    StorageTypeS3    StorageType = "s3"
    StorageTypeMinio StorageType = "minio"
)

// Storage holds uploaded menu documents until a worker has parsed them.
type Storage interface {
    Store(ctx context.Context, reader io.Reader, key string) (string, error)
    Get(ctx context.Context, key string) (io.ReadCloser, error)
    Delete(ctx context.Context, key string) error
}

type Config struct {
    Type      StorageType `yaml:"type"`
    Bucket    string      `yaml:"bucket"`
    Region    string      `yaml:"region"`
    Endpoint  string      `yaml:"endpoint"`
    AccessKey string      `yaml:"access_key"`
    SecretKey string      `yaml:"secret_key"`
    UseSSL    bool        `yaml:"use_ssl"`
}

// NewStorage connects to the configured backend and checks the bucket.
func NewStorage(ctx context.Context, cfg Config, log logger.Logger) (Storage, error) {
    if log == nil {
        log = logger.NewNop()
    }
    switch cfg.Type {
    case StorageTypeS3:
        return s3.NewS3Storage(ctx, s3.Config{
            Bucket:    cfg.Bucket,
            Region:    cfg.Region,
            Endpoint:  cfg.Endpoint,
            AccessKey: cfg.AccessKey,
            SecretKey: cfg.SecretKey,
        }, log)
    case StorageTypeMinio:
        return minio.NewMinioStorage(ctx, minio.Config{
            Bucket:    cfg.Bucket,
            Region:    cfg.Region,
            Endpoint:  cfg.Endpoint,
            AccessKey: cfg.AccessKey,
            SecretKey: cfg.SecretKey,
            UseSSL:    cfg.UseSSL,
        }, log)
    default:
        return nil, fmt.Errorf("unsupported storage type: %q", cfg.Type)
    }
}

// ReadAll fetches a whole object, failing when it is larger than limit bytes.
func ReadAll(ctx context.Context, s Storage, key string, limit int64) ([]byte, error) {
    rc, err := s.Get(ctx, key)
    if err != nil {
        return nil, err
    }
    defer rc.Close()

    data, err := io.ReadAll(io.LimitReader(rc, limit+1))
    if err != nil {
        return nil, fmt.Errorf("failed to read %s: %w", key, err)
    }
    if int64(len(data)) > limit {
        return nil, fmt.Errorf("%w: object %s exceeds %d bytes", models.ErrFileTooLarge, key, limit)
    }
    return data, nil
}
