// Package storage stores proof-of-pickup and proof-of-delivery photos. The
// S3 implementation works against any S3-compatible backend; the in-memory
// stub serves tests and local development.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"dropmarket/internal/core/ports"
	"dropmarket/internal/pkg/errs"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// thumbsPrefix is the key prefix the out-of-band resizer writes thumbnails
// under, mirroring the original key name.
const thumbsPrefix = "thumbs/"

// Config holds the S3 connection settings.
type Config struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	UsePathStyle  bool
	PublicBaseURL string
}

// S3PhotoStorage stores photos in an S3 bucket under proofs/ and derives
// the thumbnail URL from the resizer's thumbs/ key convention. The
// thumbnail may 404 until the resizer catches up.
type S3PhotoStorage struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
	logger        *slog.Logger
}

// NewS3PhotoStorage creates a photo storage over the configured bucket.
func NewS3PhotoStorage(ctx context.Context, cfg Config, logger *slog.Logger) (*S3PhotoStorage, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	publicBaseURL := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if publicBaseURL == "" {
		publicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
	}

	return &S3PhotoStorage{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: publicBaseURL,
		logger:        logger.With("component", "photo_storage"),
	}, nil
}

// Store uploads the photo and returns its public URL pair.
func (s *S3PhotoStorage) Store(ctx context.Context, data []byte, mimeType string) (ports.StoredPhoto, error) {
	name := uuid.NewString() + extensionFor(mimeType)
	key := "proofs/" + name

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return ports.StoredPhoto{}, errs.NewExternalDependencyErrorWithCause("storage", true, err)
	}

	s.logger.DebugContext(ctx, "Stored proof photo", "key", key, "bytes", len(data))

	return ports.StoredPhoto{
		URL:          s.publicBaseURL + "/" + key,
		ThumbnailURL: s.publicBaseURL + "/" + thumbsPrefix + name,
	}, nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}
