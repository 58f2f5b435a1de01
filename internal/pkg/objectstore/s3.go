package objectstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v2/log"
)

// S3Client pins files to an S3-compatible bucket. Object keys are
// derived from the content hash, so equal content maps to equal keys
// and the bucket behaves content-addressed.
type S3Client struct {
	s3Client      *s3.Client
	bucketName    string
	publicBaseURL string
}

// NewS3Client creates an S3-backed object store client.
func NewS3Client(cfg *Config) (*S3Client, error) {
	awsConfig, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID,
			cfg.S3SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.S3EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.S3EndpointURL)
			// S3-compatible services need path-style URLs
			o.UsePathStyle = true
			o.UseAccelerate = false
		}
	})

	client := &S3Client{
		s3Client:      s3Client,
		bucketName:    cfg.S3BucketName,
		publicBaseURL: strings.TrimRight(cfg.S3PublicBaseURL, "/"),
	}

	// Test connection
	if _, err := s3Client.HeadBucket(context.Background(), &s3.HeadBucketInput{
		Bucket: aws.String(cfg.S3BucketName),
	}); err != nil {
		return nil, fmt.Errorf("bucket %s not accessible: %w", cfg.S3BucketName, err)
	}

	log.Infof("[ObjectStore] Successfully initialized S3 client for bucket: %s", cfg.S3BucketName)
	return client, nil
}

// Pin uploads the buffer under its content hash and returns the
// identifier plus a retrieval URL.
func (c *S3Client) Pin(ctx context.Context, data []byte, filename string) (*PinResult, error) {
	sum := sha256.Sum256(data)
	cid := hex.EncodeToString(sum[:])
	objectKey := objectKeyFor(cid, filename)

	_, err := c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(objectKey),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", objectKey, err)
	}

	log.Infof("[ObjectStore] Uploaded %s as %s (%d bytes)", filename, objectKey, len(data))
	return &PinResult{
		Cid:        cid,
		GatewayURL: fmt.Sprintf("%s/%s", c.publicBaseURL, objectKey),
	}, nil
}

// objectKeyFor builds the bucket key for a content hash, keeping the
// original extension so gateways serve a sensible content type.
func objectKeyFor(cid, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("documents/%s/%s%s", cid[:2], cid, ext)
}

// bytesReader wraps a byte slice for multipart uploads.
func bytesReader(data []byte) io.Reader {
	return bytes.NewReader(data)
}
