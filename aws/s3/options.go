package s3

import (
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/alpha-prosoft/eventseed/aws/s3/s3types"
)

// WithRegion sets the AWS region for S3 operations.
// If not specified, uses the default AWS region from the credential chain.
func WithRegion(region string) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Region = region
	}
}

// WithMaxRetries sets the maximum number of retry attempts for failed operations.
// Default is 3 retries.
func WithMaxRetries(maxRetries int) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.MaxRetries = maxRetries
	}
}

// WithTimeout sets the timeout for individual S3 requests.
// Default is no timeout (0). Ignored when WithCustomHTTPClient is used.
func WithTimeout(timeout time.Duration) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Timeout = timeout
	}
}

// WithForcePathStyle forces the use of path-style URLs instead of virtual-hosted style.
// This is required for LocalStack and most S3-compatible services.
func WithForcePathStyle(forcePathStyle bool) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.ForcePathStyle = forcePathStyle
	}
}

// WithAWSConfig allows providing a custom AWS configuration.
// This overrides the default configuration loading behavior.
func WithAWSConfig(config *aws.Config) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.CustomAWSConfig = config
	}
}

// WithEndpoint sets a custom S3 endpoint URL.
// This is useful for S3-compatible services or local testing with LocalStack.
func WithEndpoint(endpoint string) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.Endpoint = endpoint
	}
}

// WithCustomHTTPClient allows providing a custom HTTP client.
func WithCustomHTTPClient(client *http.Client) s3types.Option {
	return func(c *s3types.ClientConfig) {
		c.CustomHTTPClient = client
	}
}

// WithContentType sets the content type for upload operations.
// Without it the type is sniffed from the payload.
func WithContentType(contentType string) s3types.UploadOption {
	return func(c *s3types.UploadOptionConfig) {
		c.ContentType = contentType
	}
}

// WithMetadata sets user metadata for upload operations.
func WithMetadata(metadata map[string]string) s3types.UploadOption {
	return func(c *s3types.UploadOptionConfig) {
		if c.Metadata == nil {
			c.Metadata = make(map[string]string)
		}
		for k, v := range metadata {
			c.Metadata[k] = v
		}
	}
}
