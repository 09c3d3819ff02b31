// Package testutil provides test utilities and mocks for S3 operations.
// This package is internal and should only be used for testing within the S3 module.
package testutil

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/alpha-prosoft/eventseed/aws/s3/internal/s3api"
)

// MockS3Client is a mock implementation of the S3API interface for testing.
// It allows customization of each S3 operation through function fields.
type MockS3Client struct {
	PutObjectFunc  func(context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObjectFunc func(context.Context, *s3.HeadObjectInput, ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// PutObject mocks the S3 PutObject operation.
func (m *MockS3Client) PutObject(
	ctx context.Context,
	params *s3.PutObjectInput,
	optFns ...func(*s3.Options),
) (*s3.PutObjectOutput, error) {
	if m.PutObjectFunc != nil {
		return m.PutObjectFunc(ctx, params, optFns...)
	}
	return &s3.PutObjectOutput{}, nil
}

// HeadObject mocks the S3 HeadObject operation.
func (m *MockS3Client) HeadObject(
	ctx context.Context,
	params *s3.HeadObjectInput,
	optFns ...func(*s3.Options),
) (*s3.HeadObjectOutput, error) {
	if m.HeadObjectFunc != nil {
		return m.HeadObjectFunc(ctx, params, optFns...)
	}
	return &s3.HeadObjectOutput{}, nil
}

var _ s3api.S3API = (*MockS3Client)(nil)
