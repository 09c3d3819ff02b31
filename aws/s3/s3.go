package s3

import (
	"bytes"
	"context"
	"errors"
	"mime"
	"net/http"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/gabriel-vasile/mimetype"

	s3errors "github.com/alpha-prosoft/eventseed/aws/s3/errors"
	"github.com/alpha-prosoft/eventseed/aws/s3/internal/validation"
	"github.com/alpha-prosoft/eventseed/aws/s3/s3types"
)

const (
	// DefaultContentType is the default content type used when content type detection fails
	DefaultContentType = "application/octet-stream"
)

// Put uploads byte data to S3 in a single request.
// An existing object at key is replaced unconditionally.
//
// Errors:
//   - ErrInvalidInput: If bucket, key, metadata or content type is invalid
//   - ErrAccessDenied: If the credentials lack permission to upload
//   - ErrBucketNotFound: If the specified bucket doesn't exist
//   - Network errors or AWS SDK errors wrapped in Error type
//
// Example:
//
//	data := []byte(`{"id": "#3f1c"}`)
//	err := client.Put(ctx, "my-bucket", "aggregates/svc/prod/3f1c.json", data,
//	    s3.WithContentType("application/json"),
//	)
func (c *Client) Put(ctx context.Context, bucket, key string, data []byte, opts ...s3types.UploadOption) error {
	if err := validateLocation("put", bucket, key); err != nil {
		return err
	}

	config := &s3types.UploadOptionConfig{
		Metadata: make(map[string]string),
	}
	for _, opt := range opts {
		opt(config)
	}

	if config.ContentType == "" {
		config.ContentType = detectContentType(key, data)
	}
	if err := validation.ValidateContentType(config.ContentType); err != nil {
		return s3errors.NewError("put", err).WithBucket(bucket).WithKey(key)
	}
	if err := validation.ValidateMetadata(config.Metadata); err != nil {
		return s3errors.NewError("put", err).WithBucket(bucket).WithKey(key)
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(config.ContentType),
	}
	if len(config.Metadata) > 0 {
		input.Metadata = config.Metadata
	}

	if _, err := c.s3Client.PutObject(ctx, input); err != nil {
		return s3errors.NewError("put", s3errors.Classify(err)).WithBucket(bucket).WithKey(key)
	}
	return nil
}

// Exists checks whether an object exists using a HEAD request.
// A missing object is reported as (false, nil); every other failure is an error.
//
// Errors:
//   - ErrInvalidInput: If bucket is empty or key is invalid
//   - ErrAccessDenied: If the credentials lack permission to access
//   - Network errors or AWS SDK errors wrapped in Error type
func (c *Client) Exists(ctx context.Context, bucket, key string) (bool, error) {
	if err := validateLocation("exists", bucket, key); err != nil {
		return false, err
	}

	_, err := c.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, s3errors.NewError("exists", s3errors.Classify(err)).WithBucket(bucket).WithKey(key)
	}

	return true, nil
}

func validateLocation(op, bucket, key string) error {
	if bucket == "" {
		return s3errors.NewError(op, s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage("bucket name cannot be empty")
	}
	if err := validation.ValidateBucketName(bucket); err != nil {
		return s3errors.NewError(op, s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage(err.Error())
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return s3errors.NewError(op, s3errors.ErrInvalidInput).
			WithBucket(bucket).
			WithKey(key).
			WithMessage(err.Error())
	}
	return nil
}

// isNotFound reports whether err is a missing-object response. Typed API
// error codes are checked first, then the HTTP status for responses whose
// code was lost (HEAD replies carry no body).
func isNotFound(err error) bool {
	if errors.Is(s3errors.Classify(err), s3errors.ErrObjectNotFound) {
		return true
	}
	var respErr *smithyhttp.ResponseError
	return errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound
}

// detectContentType prefers the key's extension and falls back to sniffing
// the payload with mimetype.
func detectContentType(key string, data []byte) string {
	if ext := path.Ext(key); ext != "" {
		if ct := mime.TypeByExtension(ext); ct != "" {
			return ct
		}
	}
	if len(data) > 0 {
		if mt := mimetype.Detect(data); mt != nil {
			return mt.String()
		}
	}
	return DefaultContentType
}
