package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"droscher.com/WineCellar/configs"
	"droscher.com/WineCellar/pkg/model"
)

const labelPrefix = "labels/"

// ObjectAPI is the part of the S3 client the label store uses.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Store struct {
	client   ObjectAPI
	bucket   string
	maxBytes int64
	logger   *zap.Logger
}

var ErrMissingBucket = errors.New("s3 storage requires a bucket")

// NewS3Store builds a client with static credentials. A custom endpoint switches to path-style
// addressing so MinIO and similar servers work.
func NewS3Store(ctx context.Context, conf configs.Storage, logger *zap.Logger) (*S3Store, error) {
	if conf.S3.Bucket == "" {
		return nil, fmt.Errorf("%w: %w", configs.ErrConfiguration, ErrMissingBucket)
	}

	options := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(conf.S3.Region)}

	if conf.S3.AccessKey != "" {
		options = append(options, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(conf.S3.AccessKey, conf.S3.SecretKey, "")))
	}

	awsConf, err := awsconfig.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsConf, func(o *s3.Options) {
		if conf.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.S3.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3StoreWithClient(client, conf.S3.Bucket, conf.MaxUploadBytes, logger), nil
}

func NewS3StoreWithClient(client ObjectAPI, bucket string, maxBytes int64, logger *zap.Logger) *S3Store {
	return &S3Store{client: client, bucket: bucket, maxBytes: maxBytes, logger: logger}
}

func (s *S3Store) Save(ctx context.Context, originalName string, data []byte) (string, error) {
	if err := checkUpload(originalName, data, s.maxBytes); err != nil {
		return "", err
	}

	reference, err := GenerateReference(originalName)
	if err != nil {
		return "", err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(labelPrefix + reference),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(http.DetectContentType(data)),
	})
	if err != nil {
		s.logger.Error("error uploading label", zap.String("bucket", s.bucket), zap.String("reference", reference), zap.Error(err))

		return "", fmt.Errorf("%w: %w", model.ErrStorage, err)
	}

	s.logger.Info("stored label", zap.String("bucket", s.bucket), zap.String("reference", reference), zap.Int("bytes", len(data)))

	return reference, nil
}

func (s *S3Store) Open(ctx context.Context, reference string) (io.ReadCloser, error) {
	if err := checkReference(reference); err != nil {
		return nil, err
	}

	output, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(labelPrefix + reference),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("%w: label %s", model.ErrNotFound, reference)
		}

		return nil, fmt.Errorf("%w: %w", model.ErrStorage, err)
	}

	return output.Body, nil
}

func (s *S3Store) Delete(ctx context.Context, reference string) error {
	if err := checkReference(reference); err != nil {
		return err
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(labelPrefix + reference),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrStorage, err)
	}

	return nil
}
