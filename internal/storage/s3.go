package storage

import (
	"alcyxob/fitness-scheduler/internal/config"
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config" // Alias config to avoid clash
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
)

// s3Storage implements FileStorage on an S3-compatible bucket.
type s3Storage struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucketName    string
}

// NewS3Storage builds the S3 client from config. A non-empty endpoint points
// the client at an S3-compatible service (MinIO, Spaces) with path-style
// addressing; otherwise the default AWS endpoint for the region is used.
func NewS3Storage(ctx context.Context, cfg config.S3Config) (FileStorage, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("s3 bucket name is required")
	}

	endpoint := endpointURL(cfg)
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if endpoint != "" {
			return aws.Endpoint{
				PartitionID:   "aws",
				URL:           endpoint,
				SigningRegion: cfg.Region,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsSDKConfig, err := awsCfg.LoadDefaultConfig(ctx,
		awsCfg.WithRegion(cfg.Region),
		awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		awsCfg.WithEndpointResolverWithOptions(resolver),
	)
	if err != nil {
		logrus.WithError(err).Error("failed to load AWS SDK config for S3")
		return nil, err
	}

	s3Client := s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		o.UsePathStyle = endpoint != ""
	})

	logrus.Infof("S3 storage initialized for endpoint: %q, bucket: %s", endpoint, cfg.BucketName)

	return &s3Storage{
		client:        s3Client,
		presignClient: s3.NewPresignClient(s3Client),
		bucketName:    cfg.BucketName,
	}, nil
}

// endpointURL returns the custom endpoint with a scheme. A bare host gets
// https when UseSSL is set and http otherwise; an explicit scheme is kept.
func endpointURL(cfg config.S3Config) string {
	if cfg.Endpoint == "" || strings.Contains(cfg.Endpoint, "://") {
		return cfg.Endpoint
	}
	if cfg.UseSSL {
		return "https://" + cfg.Endpoint
	}
	return "http://" + cfg.Endpoint
}

// PutObject uploads body to the bucket under objectKey.
func (s *s3Storage) PutObject(ctx context.Context, objectKey string, contentType string, body []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(objectKey),
		ContentType: aws.String(contentType),
		Body:        bytes.NewReader(body),
	})
	if err != nil {
		logrus.WithError(err).WithField("key", objectKey).Error("failed to put object")
		return err
	}

	logrus.WithField("key", objectKey).WithField("bucket", s.bucketName).Debug("stored object")
	return nil
}

// GeneratePresignedDownloadURL creates a temporary URL for downloading (GET).
func (s *s3Storage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	if expires <= 0 {
		expires = DownloadURLExpiry
	}

	presignParams := &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectKey),
	}

	req, err := s.presignClient.PresignGetObject(ctx, presignParams, s3.WithPresignExpires(expires))
	if err != nil {
		logrus.WithError(err).WithField("key", objectKey).Error("failed to generate presigned GET URL")
		return "", err
	}

	return req.URL, nil
}
