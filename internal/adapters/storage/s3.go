package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const (
	defaultS3Region = "us-east-1"
	defaultS3Key    = "jury/snapshot.json"
	jsonContentType = "application/json"
)

// S3Config holds the parameters of an S3-compatible backend (AWS S3 or MinIO).
type S3Config struct {
	Bucket          string
	Key             string // object key; defaults to jury/snapshot.json
	Region          string // defaults to us-east-1
	Endpoint        string // optional custom endpoint
	PathStyle       bool
	AccessKeyID     string // optional; falls back to the default credentials chain
	SecretAccessKey string
}

// S3Backend stores the document as one object.
type S3Backend struct {
	client *s3.Client
	bucket string
	key    string
}

// OpenS3 builds an S3 client from cfg.
func OpenS3(ctx context.Context, cfg S3Config) (*S3Backend, error) {
	return openS3(ctx, cfg)
}

func openS3(ctx context.Context, cfg S3Config, optFns ...func(*s3.Options)) (*S3Backend, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("%w: s3 bucket", ErrMissingSetting)
	}
	region := cfg.Region
	if region == "" {
		region = defaultS3Region
	}
	key := strings.TrimPrefix(cfg.Key, "/")
	if key == "" {
		key = defaultS3Key
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, append([]func(*s3.Options){func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		// MinIO and most S3 clones reject the newer default integrity headers.
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	}}, optFns...)...)

	return &S3Backend{client: client, bucket: cfg.Bucket, key: key}, nil
}

func (s *S3Backend) Driver() Driver { return DriverS3 }

// Key returns the object key holding the document.
func (s *S3Backend) Key() string { return s.key }

func (s *S3Backend) Read(ctx context.Context) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &s.key})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("get object %s: %w", s.key, err)
	}
	defer func() { _ = out.Body.Close() }()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", s.key, err)
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	return data, nil
}

func (s *S3Backend) Write(ctx context.Context, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &s.bucket,
		Key:           &s.key,
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(jsonContentType),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", s.key, err)
	}
	return nil
}

func (s *S3Backend) Close() error { return nil }

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}
