package migration

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"rxcampus/internal/platform/config"
)

// S3Uploader copies attachments through the storage S3-interop endpoint.
// Large bases move noticeably faster here than through the REST API, and
// the same code path serves a plain S3 bucket.
type S3Uploader struct {
	client *s3.Client
	bucket string
}

// NewS3Uploader dials the S3-interop endpoint. Static keys from cfg win;
// without them the ambient AWS credential chain applies.
func NewS3Uploader(ctx context.Context, cfg config.StorageConfig, bucket string) (*S3Uploader, error) {
	if cfg.S3Endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}

	opts := s3.Options{
		Region:       cfg.S3Region,
		BaseEndpoint: aws.String(cfg.S3Endpoint),
		UsePathStyle: true,
	}
	if cfg.S3AccessKey != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")
	} else {
		ambient, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
		if err != nil {
			return nil, fmt.Errorf("load aws credentials: %w", err)
		}
		opts.Credentials = ambient.Credentials
	}

	return &S3Uploader{client: s3.New(opts), bucket: bucket}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, objectPath string, data []byte, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(objectPath),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := u.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("put object %q: %w", objectPath, err)
	}
	return nil
}
