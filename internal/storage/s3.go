package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Vishnu2707/Text-to-Audio-Converter-Using-AWS-S3-Lambda-and-Polly/pkg/model"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

type S3Store struct {
	client *s3.Client
	log    *zap.Logger
}

type S3Options struct {
	// Endpoint overrides the AWS endpoint for S3-compatible stores
	// (MinIO, Yandex Object Storage); path-style addressing is enabled
	// whenever it is set.
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// NewS3Store creates an object store backed by S3
func NewS3Store(ctx context.Context, opts S3Options, log *zap.Logger) (*S3Store, error) {
	if opts.Region == "" {
		opts.Region = "us-east-1"
	}
	if log == nil {
		log = zap.NewNop()
	}

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	log.Info("S3 storage initialized", zap.String("region", opts.Region))

	return &S3Store{
		client: client,
		log:    log,
	}, nil
}

// Get fetches an object's bytes. A missing object or bucket is reported
// as a permanent SourceNotFound; everything else is a transient
// StorageUnavailable eligible for retry.
func (s *S3Store) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, classify("get object", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, model.Transient(model.ErrKindStorageUnavailable,
			fmt.Errorf("read object body: %w", err))
	}

	s.log.Debug("Object fetched from S3",
		zap.String("bucket", bucket),
		zap.String("key", key),
		zap.Int("size", len(data)))

	return data, nil
}

// Put uploads an object, replacing any existing object at key. S3 object
// writes are atomic: readers see either the prior object or the full new
// one, never a partial write.
func (s *S3Store) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return model.Transient(model.ErrKindStorageUnavailable,
			fmt.Errorf("put object: %w", err))
	}

	s.log.Debug("Object uploaded to S3",
		zap.String("bucket", bucket),
		zap.String("key", key),
		zap.Int("size", len(data)))

	return nil
}

func classify(op string, err error) error {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return model.Permanent(model.ErrKindSourceNotFound, fmt.Errorf("%s: %w", op, err))
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchBucket":
			return model.Permanent(model.ErrKindSourceNotFound, fmt.Errorf("%s: %w", op, err))
		}
	}

	return model.Transient(model.ErrKindStorageUnavailable, fmt.Errorf("%s: %w", op, err))
}
