package s3

import (
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpha-prosoft/eventseed/aws/s3/internal/testutil"
	"github.com/alpha-prosoft/eventseed/aws/s3/s3types"
)

func TestClient_New(t *testing.T) {
	custom := &aws.Config{Region: "eu-west-1"}

	tests := []struct {
		name       string
		opts       []s3types.Option
		wantRegion string
	}{
		{
			name:       "custom aws config keeps its region",
			opts:       []s3types.Option{WithAWSConfig(custom)},
			wantRegion: "eu-west-1",
		},
		{
			name:       "region option wins over aws config",
			opts:       []s3types.Option{WithAWSConfig(custom), WithRegion("us-west-2")},
			wantRegion: "us-west-2",
		},
		{
			name:       "empty region falls back to us-east-1",
			opts:       []s3types.Option{WithAWSConfig(&aws.Config{})},
			wantRegion: "us-east-1",
		},
		{
			name: "endpoint and path style for localstack",
			opts: []s3types.Option{
				WithAWSConfig(&aws.Config{}),
				WithEndpoint("http://localhost:4566"),
				WithForcePathStyle(true),
				WithTimeout(5 * time.Second),
			},
			wantRegion: "us-east-1",
		},
		{
			name: "custom http client",
			opts: []s3types.Option{
				WithAWSConfig(&aws.Config{Region: "eu-central-1"}),
				WithCustomHTTPClient(&http.Client{}),
			},
			wantRegion: "eu-central-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.opts...)
			require.NoError(t, err)
			require.NotNil(t, client)
			assert.NotNil(t, client.s3Client)
			assert.Equal(t, tt.wantRegion, client.config.Region)
		})
	}
}

func TestClient_New_MaxRetries(t *testing.T) {
	client, err := New(WithAWSConfig(&aws.Config{}), WithMaxRetries(7))
	require.NoError(t, err)
	assert.Equal(t, 7, client.config.RetryMaxAttempts)

	client, err = New(WithAWSConfig(&aws.Config{}), WithMaxRetries(1))
	require.NoError(t, err)
	assert.Equal(t, 1, client.config.RetryMaxAttempts)

	client, err = New(WithAWSConfig(&aws.Config{}))
	require.NoError(t, err)
	assert.Equal(t, 3, client.config.RetryMaxAttempts)
}

func TestClient_NewWithClient(t *testing.T) {
	mock := &testutil.MockS3Client{}
	client := NewWithClient(mock)
	assert.Same(t, mock, client.s3Client)
}

func TestOptions(t *testing.T) {
	cfg := &s3types.ClientConfig{}
	for _, opt := range []s3types.Option{
		WithRegion("ap-south-1"),
		WithMaxRetries(2),
		WithTimeout(time.Second),
		WithForcePathStyle(true),
		WithEndpoint("http://minio:9000"),
	} {
		opt(cfg)
	}

	assert.Equal(t, "ap-south-1", cfg.Region)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.Timeout)
	assert.True(t, cfg.ForcePathStyle)
	assert.Equal(t, "http://minio:9000", cfg.Endpoint)

	upload := &s3types.UploadOptionConfig{}
	WithContentType("application/json")(upload)
	WithMetadata(map[string]string{"a": "1"})(upload)
	WithMetadata(map[string]string{"b": "2"})(upload)
	assert.Equal(t, "application/json", upload.ContentType)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, upload.Metadata)
}
