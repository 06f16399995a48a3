package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"fullpicture/config"
	"fullpicture/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3Config contains minimal configuration for creating an S3 client.
// Values are optional and will fall back to the standard AWS config/credential chain.
type S3Config struct {
	// Region to use for requests, e.g. "us-east-1". If empty, AWS defaults apply.
	Region string
	// UsePathStyle forces path-style addressing (useful for some S3-compatible providers).
	UsePathStyle bool
}

// S3 wraps the AWS SDK for Go v2 S3 client with the narrow surface the snapshot publisher needs.
type S3 struct {
	client *s3.Client
}

// NewS3 creates a new S3 wrapper using the default AWS configuration chain.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	c := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})
	return &S3{client: c}, nil
}

// Put uploads an object to the given bucket/key.
func (s *S3) Put(ctx context.Context, bucket, key string, body io.Reader, contentType, cacheControl string) error {
	in := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if cacheControl != "" {
		in.CacheControl = aws.String(cacheControl)
	}

	_, err := s.client.PutObject(ctx, in)
	return err
}

// Exists returns true if the object exists (HTTP 200 from HeadObject); false if 404/NotFound.
func (s *S3) Exists(ctx context.Context, bucket, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == 404 {
		return false, nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
		return false, nil
	}

	return false, err
}

// ObjectStore is the object storage the snapshot publisher writes to
type ObjectStore interface {
	Put(ctx context.Context, bucket, key string, body io.Reader, contentType, cacheControl string) error
}

// RecentSource supplies the feed to publish
type RecentSource interface {
	Recent(ctx context.Context, limit int) ([]types.Perspective, error)
}

// SnapshotPublisher writes the recent feed as a static JSON object so that
// front-ends can fall back to it when the API is down.
type SnapshotPublisher struct {
	objects ObjectStore
	source  RecentSource
	bucket  string
	key     string
}

// NewSnapshotPublisher creates a publisher writing to bucket under config.SnapshotKey
func NewSnapshotPublisher(objects ObjectStore, source RecentSource, bucket string) *SnapshotPublisher {
	return &SnapshotPublisher{objects: objects, source: source, bucket: bucket, key: config.SnapshotKey}
}

// Publish uploads the current recent feed and returns the number of perspectives written
func (p *SnapshotPublisher) Publish(ctx context.Context) (int, error) {
	recent, err := p.source.Recent(ctx, config.RecentFeedLimit)
	if err != nil {
		return 0, fmt.Errorf("failed to load recent feed: %w", err)
	}

	data, err := json.Marshal(recent)
	if err != nil {
		return 0, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := p.objects.Put(ctx, p.bucket, p.key, bytes.NewReader(data), "application/json", "max-age=60"); err != nil {
		return 0, fmt.Errorf("failed to upload snapshot to s3://%s/%s: %w", p.bucket, p.key, err)
	}
	return len(recent), nil
}
