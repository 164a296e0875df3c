// Package s3 stores recordings in Amazon S3 or an S3-compatible service and
// presigns direct PUT uploads.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	apperrors "github.com/kbukum/transcribekit/errors"
	"github.com/kbukum/transcribekit/logger"
	"github.com/kbukum/transcribekit/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderS3, func(ctx context.Context, cfg storage.Config, _ *logger.Logger) (storage.Storage, error) {
		return NewStorage(ctx, cfg)
	})
}

// Storage implements storage.Storage using Amazon S3 (or S3-compatible services).
type Storage struct {
	client  *awss3.Client
	presign *awss3.PresignClient
	bucket  string
}

var (
	_ storage.Storage         = (*Storage)(nil)
	_ storage.UploadPresigner = (*Storage)(nil)
)

// NewStorage creates a new S3 storage client from the given config.
func NewStorage(ctx context.Context, cfg storage.Config) (*Storage, error) {
	cfg.ApplyDefaults()
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
		if cfg.ForcePathStyle {
			o.UsePathStyle = true
		}
	})

	return &Storage{
		client:  client,
		presign: awss3.NewPresignClient(client),
		bucket:  cfg.Bucket,
	}, nil
}

// Upload writes data from reader to S3.
func (s *Storage) Upload(ctx context.Context, path string, reader io.Reader, contentType string) error {
	input := &awss3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
		Body:   reader,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("storage: s3 upload: %w", err)
	}
	return nil
}

// Download returns a reader for the S3 object at the given path.
func (s *Storage) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, apperrors.NotFound("object", path).WithCause(err)
		}
		return nil, fmt.Errorf("storage: s3 download: %w", err)
	}
	return out.Body, nil
}

// Delete removes an S3 object. S3 reports success for missing keys.
func (s *Storage) Delete(ctx context.Context, path string) error {
	_, err := s.client.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return fmt.Errorf("storage: s3 delete: %w", err)
	}
	return nil
}

// Exists checks whether an S3 object exists.
func (s *Storage) Exists(ctx context.Context, path string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &awss3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("storage: s3 head: %w", err)
	}
	return true, nil
}

// List returns metadata for all objects whose key starts with prefix.
func (s *Storage) List(ctx context.Context, prefix string) ([]storage.FileInfo, error) {
	paginator := awss3.NewListObjectsV2Paginator(s.client, &awss3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	var files []storage.FileInfo
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("storage: s3 list: %w", err)
		}
		for _, obj := range out.Contents {
			fi := storage.FileInfo{
				Path: aws.ToString(obj.Key),
				Size: aws.ToInt64(obj.Size),
			}
			if obj.LastModified != nil {
				fi.LastModified = *obj.LastModified
			}
			files = append(files, fi)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// PresignPut returns a URL that accepts a PUT of path until expiry passes.
// Only the host header is signed, so the uploader's Content-Type is not
// enforced by the signature. Signing is local; no request is sent.
func (s *Storage) PresignPut(ctx context.Context, path, contentType string, expiry time.Duration) (string, error) {
	input := &awss3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	req, err := s.presign.PresignPutObject(ctx, input, awss3.WithPresignExpires(expiry))
	if err != nil {
		return "", fmt.Errorf("storage: s3 presign: %w", err)
	}
	return req.URL, nil
}
