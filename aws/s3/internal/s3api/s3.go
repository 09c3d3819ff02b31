// Package s3api defines interfaces for S3 operations to enable testing and mocking.
package s3api

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API defines the interface for S3 operations used by this module.
type S3API interface {
	// PutObject uploads an object to S3
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)

	// HeadObject retrieves metadata about an object without retrieving the object itself
	HeadObject(
		ctx context.Context,
		params *s3.HeadObjectInput,
		optFns ...func(*s3.Options),
	) (*s3.HeadObjectOutput, error)
}

// Verify that the AWS S3 client implements our interface
var _ S3API = (*s3.Client)(nil)
