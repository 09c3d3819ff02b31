// Package s3types holds the option and result types shared by the s3 client.
package s3types

import (
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// ClientConfig holds configuration for the S3 client.
type ClientConfig struct {
	Region           string
	Endpoint         string
	MaxRetries       int
	Timeout          time.Duration
	ForcePathStyle   bool
	CustomAWSConfig  *aws.Config
	CustomHTTPClient *http.Client
}

// UploadOptionConfig holds configuration for upload operations via functional options.
type UploadOptionConfig struct {
	ContentType string
	Metadata    map[string]string
}

type (
	// Option is a functional option for configuring the S3 client.
	Option func(*ClientConfig)
	// UploadOption is a functional option for configuring S3 upload operations.
	UploadOption func(*UploadOptionConfig)
)
