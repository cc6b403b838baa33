package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var (
	ErrUploadsDisabled     = errors.New("uploads are not configured")
	ErrUnsupportedMimeType = errors.New("unsupported image type")
)

// Uploader stores an object and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// ImageExtensions maps accepted image content types to file extensions.
var ImageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ImageKey builds a fresh object key for an image under folder.
func ImageKey(folder, contentType string) (string, error) {
	ext, ok := ImageExtensions[strings.ToLower(contentType)]
	if !ok {
		return "", ErrUnsupportedMimeType
	}
	return path.Join(folder, uuid.NewString()+ext), nil
}

type S3Options struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicBaseURL   string
}

// S3Uploader writes to any S3-compatible bucket (AWS, R2, MinIO).
type S3Uploader struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

func NewS3Uploader(ctx context.Context, opts S3Options) (*S3Uploader, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKeyID, opts.SecretAccessKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	base := opts.PublicBaseURL
	if base == "" {
		if opts.Endpoint != "" {
			base = fmt.Sprintf("%s/%s", strings.TrimRight(opts.Endpoint, "/"), opts.Bucket)
		} else {
			base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, opts.Region)
		}
	}

	return &S3Uploader{
		client:        client,
		bucket:        opts.Bucket,
		publicBaseURL: strings.TrimRight(base, "/"),
	}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return u.publicBaseURL + "/" + key, nil
}

// DisabledUploader is used when no bucket is configured.
type DisabledUploader struct{}

func (DisabledUploader) Upload(context.Context, string, string, io.Reader) (string, error) {
	return "", ErrUploadsDisabled
}
