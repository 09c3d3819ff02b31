// Package localstack starts a LocalStack container for integration tests and
// hands out AWS clients pointed at it.
package localstack

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/localstack"
	"github.com/testcontainers/testcontainers-go/wait"
)

const region = "us-east-1"

// Stack is a running LocalStack container.
type Stack struct {
	container *localstack.LocalStackContainer
	endpoint  string
}

// Start creates and starts a LocalStack container serving S3 and Secrets Manager.
func Start(ctx context.Context) (*Stack, error) {
	container, err := localstack.Run(ctx,
		"localstack/localstack:latest",
		testcontainers.WithEnv(map[string]string{"SERVICES": "s3,secretsmanager"}),
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/_localstack/health").
				WithPort("4566").
				WithStartupTimeout(2*time.Minute),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start LocalStack container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "4566")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	return &Stack{
		container: container,
		endpoint:  fmt.Sprintf("http://%s:%s", host, port.Port()),
	}, nil
}

// Setup starts a stack for t, skipping in short mode, and terminates it on cleanup.
func Setup(t *testing.T) *Stack {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	stack, err := Start(ctx)
	if err != nil {
		t.Fatalf("Failed to create LocalStack container: %v", err)
	}
	t.Cleanup(func() {
		if err := stack.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate LocalStack container: %v", err)
		}
	})
	return stack
}

// Endpoint returns the LocalStack endpoint URL.
func (s *Stack) Endpoint() string {
	return s.endpoint
}

// Region returns the AWS region used by LocalStack.
func (s *Stack) Region() string {
	return region
}

// AWSConfig returns an AWS configuration with static test credentials.
func (s *Stack) AWSConfig(ctx context.Context) (aws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(aws.CredentialsProviderFunc(
			func(ctx context.Context) (aws.Credentials, error) {
				return aws.Credentials{
					AccessKeyID:     "test",
					SecretAccessKey: "test",
				}, nil
			})),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// S3Client returns a path-style S3 client for the stack.
func (s *Stack) S3Client(t *testing.T) *s3.Client {
	t.Helper()

	cfg, err := s.AWSConfig(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String(s.endpoint)
	})
}

// SecretsClient returns a Secrets Manager client for the stack.
func (s *Stack) SecretsClient(t *testing.T) *secretsmanager.Client {
	t.Helper()

	cfg, err := s.AWSConfig(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return secretsmanager.NewFromConfig(cfg, func(o *secretsmanager.Options) {
		o.BaseEndpoint = aws.String(s.endpoint)
	})
}

// Terminate stops and removes the LocalStack container.
func (s *Stack) Terminate(ctx context.Context) error {
	if s.container != nil {
		if err := s.container.Terminate(ctx); err != nil {
			return fmt.Errorf("failed to terminate container: %w", err)
		}
	}
	return nil
}

// CreateBucket creates a test bucket.
func CreateBucket(ctx context.Context, client *s3.Client, bucketName string) error {
	_, err := client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(bucketName),
	})
	if err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// DeleteBucket deletes all objects and removes a test bucket.
func DeleteBucket(ctx context.Context, client *s3.Client, bucketName string) error {
	listInput := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucketName),
	}

	for {
		listOutput, err := client.ListObjectsV2(ctx, listInput)
		if err != nil {
			return fmt.Errorf("failed to list objects: %w", err)
		}
		if len(listOutput.Contents) == 0 {
			break
		}

		var objects []types.ObjectIdentifier
		for _, obj := range listOutput.Contents {
			objects = append(objects, types.ObjectIdentifier{Key: obj.Key})
		}

		if _, err := client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(bucketName),
			Delete: &types.Delete{Objects: objects},
		}); err != nil {
			return fmt.Errorf("failed to delete objects: %w", err)
		}

		if !aws.ToBool(listOutput.IsTruncated) {
			break
		}
		listInput.ContinuationToken = listOutput.NextContinuationToken
	}

	if _, err := client.DeleteBucket(ctx, &s3.DeleteBucketInput{
		Bucket: aws.String(bucketName),
	}); err != nil {
		return fmt.Errorf("failed to delete bucket: %w", err)
	}
	return nil
}
