package objectstore

import (
	"errors"

	"github.com/coverchain/coverchain/internal/pkg/env"
)

const (
	BackendPinata = "pinata"
	BackendS3     = "s3"
)

// Config holds object storage configuration
type Config struct {
	Backend string

	// Pinata-style pinning service
	PinataBaseURL string
	PinataJWT     string
	GatewayBase   string // public retrieval gateway, e.g. https://gateway.pinata.cloud/ipfs

	// S3-compatible storage
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Region          string
	S3BucketName      string
	S3EndpointURL     string // optional for S3-compatible services
	S3PublicBaseURL   string // base URL objects are served from
}

// LoadConfig loads object storage configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		Backend:           env.GetEnv("OBJECT_STORE_BACKEND", BackendPinata),
		PinataBaseURL:     env.GetEnv("PINATA_BASE_URL", "https://api.pinata.cloud"),
		PinataJWT:         env.GetEnv("PINATA_JWT", ""),
		GatewayBase:       env.GetEnv("PINATA_GATEWAY_BASE", "https://gateway.pinata.cloud/ipfs"),
		S3AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Region:          env.GetEnv("S3_REGION", "us-east-1"),
		S3BucketName:      env.GetEnv("S3_BUCKET_NAME", ""),
		S3EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
		S3PublicBaseURL:   env.GetEnv("S3_PUBLIC_BASE_URL", ""),
	}

	switch config.Backend {
	case BackendPinata:
		if config.PinataJWT == "" {
			return nil, errors.New("PINATA_JWT is required for the pinata backend")
		}
	case BackendS3:
		if config.S3AccessKeyID == "" {
			return nil, errors.New("S3_ACCESS_KEY_ID is required for the s3 backend")
		}
		if config.S3SecretAccessKey == "" {
			return nil, errors.New("S3_SECRET_ACCESS_KEY is required for the s3 backend")
		}
		if config.S3BucketName == "" {
			return nil, errors.New("S3_BUCKET_NAME is required for the s3 backend")
		}
	}

	return config, nil
}
