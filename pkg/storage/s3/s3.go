package s3

import (
    "context"
    "fmt"
    "io"

    "github.com/aws/aws-sdk-go-v2/aws"
    "github.com/aws/aws-sdk-go-v2/config"
    "github.com/aws/aws-sdk-go-v2/credentials"
    "github.com/aws/aws-sdk-go-v2/service/s3"

    "github.com/zubenkoruslan/hospitalitai-sub007/pkg/logger"
)

type Config struct {
    Bucket    string
    Region    string
    Endpoint  string
    AccessKey string
    SecretKey string
}

// ObjectAPI is the part of the S3 client the storage uses.
type ObjectAPI interface {
    PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
    GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
    DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Storage struct {
    client     ObjectAPI
    bucketName string
    logger     logger.Logger
}

func NewS3Storage(ctx context.Context, cfg Config, log logger.Logger) (*S3Storage, error) {
    log.Info("S3 configuration",
        logger.String("bucket", cfg.Bucket),
        logger.String("region", cfg.Region),
        logger.String("endpoint", cfg.Endpoint),
    )

    opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
    if cfg.AccessKey != "" && cfg.SecretKey != "" {
        opts = append(opts, config.WithCredentialsProvider(
            credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
        ))
    }
    awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
    if err != nil {
        return nil, fmt.Errorf("failed to load AWS config: %w", err)
    }

    client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
        if cfg.Endpoint != "" {
            o.BaseEndpoint = aws.String(cfg.Endpoint)
            o.UsePathStyle = true
        }
    })
    if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(cfg.Bucket)}); err != nil {
        return nil, fmt.Errorf("failed to verify bucket existence: %w", err)
    }
    return NewWithClient(client, cfg.Bucket, log), nil
}

func NewWithClient(client ObjectAPI, bucket string, log logger.Logger) *S3Storage {
    return &S3Storage{client: client, bucketName: bucket, logger: log}
}

func (s *S3Storage) Store(ctx context.Context, reader io.Reader, key string) (string, error) {
    _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
        Bucket: aws.String(s.bucketName),
        Key:    aws.String(key),
        Body:   reader,
    })
    if err != nil {
        s.logger.Error("Failed to store file to S3",
            logger.String("bucket", s.bucketName),
            logger.String("key", key),
            logger.Error(err),
        )
        return "", fmt.Errorf("failed to store file: %w", err)
    }
    return key, nil
}

func (s *S3Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
    result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
        Bucket: aws.String(s.bucketName),
        Key:    aws.String(key),
    })
    if err != nil {
        s.logger.Error("Failed to get file from S3",
            logger.String("bucket", s.bucketName),
            logger.String("key", key),
            logger.Error(err),
        )
        return nil, fmt.Errorf("failed to get file: %w", err)
    }
    return result.Body, nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
    _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
        Bucket: aws.String(s.bucketName),
        Key:    aws.String(key),
    })
    if err != nil {
        s.logger.Error("Failed to delete file from S3",
            logger.String("bucket", s.bucketName),
            logger.String("key", key),
            logger.Error(err),
        )
        return fmt.Errorf("failed to delete file: %w", err)
    }
    return nil
}
