package store

import (
	"context"

	"github.com/alpha-prosoft/eventseed/aws/s3"
	"github.com/alpha-prosoft/eventseed/aws/s3/s3types"
)

// S3Client is the subset of the s3 client the store uses.
type S3Client interface {
	Exists(ctx context.Context, bucket, key string) (bool, error)
	Put(ctx context.Context, bucket, key string, data []byte, opts ...s3types.UploadOption) error
}

// S3 stores aggregates in an S3 bucket.
type S3 struct {
	client S3Client
	bucket string
}

// NewS3 returns an S3 store for bucket.
func NewS3(client S3Client, bucket string) *S3 {
	return &S3{client: client, bucket: bucket}
}

// Exists implements ObjectStore.
func (s *S3) Exists(ctx context.Context, key string) (bool, error) {
	found, err := s.client.Exists(ctx, s.bucket, key)
	if err != nil {
		return false, accessError(err, "exists", s, key)
	}
	return found, nil
}

// Put implements ObjectStore. The object is written with ContentType.
func (s *S3) Put(ctx context.Context, key string, data []byte) error {
	if err := s.client.Put(ctx, s.bucket, key, data, s3.WithContentType(ContentType)); err != nil {
		return accessError(err, "put", s, key)
	}
	return nil
}

// Location implements ObjectStore.
func (s *S3) Location(key string) string {
	return "s3://" + s.bucket + "/" + key
}

var _ S3Client = (*s3.Client)(nil)
