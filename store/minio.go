package store

import (
	"bytes"
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/alpha-prosoft/eventseed/errors"
)

// MinIOOptions configures a MinIO store.
type MinIOOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	Secure    bool

	// MaxRetries is the number of attempts per request. Zero keeps the
	// minio-go default.
	MaxRetries int
}

// MinIO stores aggregates on an S3-compatible endpoint through minio-go.
type MinIO struct {
	client *minio.Client
	bucket string
}

// NewMinIO connects a MinIO store for bucket.
func NewMinIO(opts MinIOOptions, bucket string) (*MinIO, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:      credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure:     opts.Secure,
		Region:     opts.Region,
		MaxRetries: opts.MaxRetries,
	})
	if err != nil {
		return nil, errors.WrapWithContext(err, errors.CodeInvalidConfig, "failed to create minio client",
			map[string]interface{}{"endpoint": opts.Endpoint})
	}
	return &MinIO{client: client, bucket: bucket}, nil
}

// Exists implements ObjectStore.
func (m *MinIO) Exists(ctx context.Context, key string) (bool, error) {
	_, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isMinIONotFound(err) {
			return false, nil
		}
		return false, accessError(err, "exists", m, key)
	}
	return true, nil
}

// Put implements ObjectStore. The object is written with ContentType.
func (m *MinIO) Put(ctx context.Context, key string, data []byte) error {
	_, err := m.client.PutObject(
		ctx,
		m.bucket,
		key,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{
			ContentType: ContentType,
		},
	)
	if err != nil {
		return accessError(err, "put", m, key)
	}
	return nil
}

// Location implements ObjectStore.
func (m *MinIO) Location(key string) string {
	return m.client.EndpointURL().String() + "/" + m.bucket + "/" + key
}

func isMinIONotFound(err error) bool {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NotFound":
		return true
	}
	return false
}
