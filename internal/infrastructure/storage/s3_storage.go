// Package storage provides the S3 compatible backend for receipt PDFs.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	infraconfig "github.com/techverse-private-limited/stock-blueprints-54/internal/infrastructure/config"
	infra "github.com/techverse-private-limited/stock-blueprints-54/internal/infrastructure/printing"
	"go.uber.org/zap"
)

const (
	pdfContentType = "application/pdf"
	receiptsPrefix = "receipts/"
)

// Ensure S3ReceiptStorage implements PDFStorage
var _ infra.PDFStorage = (*S3ReceiptStorage)(nil)

// S3ReceiptStorage stores receipt PDFs in an S3 compatible bucket (AWS S3, MinIO, RustFS)
// and hands out presigned download URLs.
type S3ReceiptStorage struct {
	client            *s3.Client
	presignClient     *s3.PresignClient
	bucket            string
	presignExpiration time.Duration
	logger            *zap.Logger
}

// S3ReceiptStorageOption is a functional option for configuring S3ReceiptStorage
type S3ReceiptStorageOption func(*S3ReceiptStorage)

// WithLogger sets a custom logger
func WithLogger(logger *zap.Logger) S3ReceiptStorageOption {
	return func(s *S3ReceiptStorage) {
		s.logger = logger
	}
}

// WithPresignExpiration sets how long download URLs stay valid
func WithPresignExpiration(d time.Duration) S3ReceiptStorageOption {
	return func(s *S3ReceiptStorage) {
		s.presignExpiration = d
	}
}

// NewS3ReceiptStorage creates the storage from configuration.
// Without static keys the default AWS credential chain is used.
func NewS3ReceiptStorage(ctx context.Context, cfg *infraconfig.StorageConfig, opts ...S3ReceiptStorageOption) (*S3ReceiptStorage, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if (cfg.AccessKeyID == "") != (cfg.SecretAccessKey == "") {
		return nil, errors.New("storage access key id and secret access key must be set together")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	endpoint := cfg.Endpoint
	if endpoint != "" && !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		// MinIO and RustFS reject the streaming checksum trailer
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})

	storage := &S3ReceiptStorage{
		client:            client,
		presignClient:     s3.NewPresignClient(client),
		bucket:            cfg.Bucket,
		presignExpiration: cfg.PresignExpiry,
		logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(storage)
	}
	if storage.presignExpiration <= 0 {
		storage.presignExpiration = 15 * time.Minute
	}
	storage.logger = storage.logger.With(zap.String("storage", "s3"), zap.String("bucket", cfg.Bucket))

	return storage, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *S3ReceiptStorage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating storage bucket")
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Store uploads the PDF and returns a presigned download URL
func (s *S3ReceiptStorage) Store(ctx context.Context, req *infra.StoreRequest) (*infra.StoreResult, error) {
	if req == nil || len(req.PDFData) == 0 {
		return nil, infra.NewRenderError(infra.ErrCodeStorageFailed, "PDF data is empty", nil)
	}

	key := infra.ObjectPath(req.JobID, time.Now())
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(req.PDFData),
		ContentType:   aws.String(pdfContentType),
		ContentLength: aws.Int64(int64(len(req.PDFData))),
	}
	if req.BillNumber != "" {
		input.Metadata = map[string]string{"bill-number": req.BillNumber}
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return nil, infra.NewRenderError(infra.ErrCodeStorageFailed, "failed to upload PDF", err)
	}

	url, err := s.presign(ctx, key)
	if err != nil {
		return nil, infra.NewRenderError(infra.ErrCodeStorageFailed, "failed to presign PDF URL", err)
	}

	s.logger.Info("PDF stored",
		zap.String("key", key),
		zap.String("bill_number", req.BillNumber),
		zap.Int("size", len(req.PDFData)))

	return &infra.StoreResult{
		Path: key,
		URL:  url,
		Size: int64(len(req.PDFData)),
	}, nil
}

// Get downloads a stored PDF
func (s *S3ReceiptStorage) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, infra.NewRenderError(infra.ErrCodeFileNotFound, "PDF not found", err)
		}
		return nil, infra.NewRenderError(infra.ErrCodeStorageFailed, "failed to download PDF", err)
	}
	return out.Body, nil
}

// Delete removes a stored PDF
func (s *S3ReceiptStorage) Delete(ctx context.Context, path string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil && !isNotFound(err) {
		return infra.NewRenderError(infra.ErrCodeStorageFailed, "failed to delete PDF", err)
	}
	return nil
}

// CleanupOlderThan deletes receipts last modified before now-age
func (s *S3ReceiptStorage) CleanupOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := time.Now().Add(-age)
	deleted := 0

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(receiptsPrefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return deleted, infra.NewRenderError(infra.ErrCodeStorageFailed, "failed to list receipts", err)
		}
		for _, obj := range page.Contents {
			if obj.LastModified == nil || !obj.LastModified.Before(cutoff) {
				continue
			}
			if err := s.Delete(ctx, aws.ToString(obj.Key)); err != nil {
				s.logger.Warn("failed to delete old PDF", zap.String("key", aws.ToString(obj.Key)), zap.Error(err))
				continue
			}
			deleted++
		}
	}

	s.logger.Info("cleanup completed", zap.Int("deleted", deleted), zap.Duration("age", age))
	return deleted, nil
}

// GetURL returns a fresh presigned download URL, or "" when signing fails
func (s *S3ReceiptStorage) GetURL(path string) string {
	url, err := s.presign(context.Background(), path)
	if err != nil {
		s.logger.Warn("failed to presign PDF URL", zap.String("key", path), zap.Error(err))
		return ""
	}
	return url
}

// GetBucket returns the bucket name
func (s *S3ReceiptStorage) GetBucket() string {
	return s.bucket
}

func (s *S3ReceiptStorage) presign(ctx context.Context, key string) (string, error) {
	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.presignExpiration))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func isNotFound(err error) bool {
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
		return true
	}
	// some S3 compatible services only report the code in the message
	return strings.Contains(err.Error(), "NotFound") || strings.Contains(err.Error(), "NoSuchKey")
}
