package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"
)

// AWS error codes mapped to package errors.
const (
	ResourceNotFoundException = "ResourceNotFoundException"
	AccessDeniedException     = "AccessDeniedException"
)

// Client reads secrets from AWS Secrets Manager. It is safe for concurrent use.
type Client struct {
	api     ManagerAPI
	logger  *slog.Logger
	options *clientOptions
}

// NewClient creates a client from the default AWS configuration chain.
func NewClient(ctx context.Context, opts ...Option) (*Client, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewClientWithConfig(&cfg, opts...)
}

// NewClientWithConfig creates a client from cfg. This is how tests point the
// client at LocalStack.
func NewClientWithConfig(cfg *aws.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("config region cannot be empty")
	}

	options := defaultOptions()
	applyOptions(options, opts)

	api := secretsmanager.NewFromConfig(*cfg, func(o *secretsmanager.Options) {
		if options.retryer != nil {
			o.Retryer = options.retryer
		}
	})
	return newClient(api, options), nil
}

// NewClientWithAPI creates a client over an existing ManagerAPI.
func NewClientWithAPI(api ManagerAPI, opts ...Option) *Client {
	options := defaultOptions()
	applyOptions(options, opts)
	return newClient(api, options)
}

func newClient(api ManagerAPI, options *clientOptions) *Client {
	return &Client{
		api:     api,
		logger:  options.logger,
		options: options,
	}
}

// handleError keeps package errors as they are and wraps anything else with
// the operation name.
func (c *Client) handleError(err error, operation string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrSecretNotFound) ||
		errors.Is(err, ErrSecretEmpty) ||
		errors.Is(err, ErrAccessDenied) ||
		errors.Is(err, ErrMalformedSecret) {
		return err
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s operation failed: %s: %s",
			operation, apiErr.ErrorCode(), apiErr.ErrorMessage())
	}
	return fmt.Errorf("%s operation failed: %w", operation, err)
}

// GetSecret returns the string value of secretName. Binary secrets are
// returned as their raw bytes.
func (c *Client) GetSecret(ctx context.Context, secretName string) (string, error) {
	if ctx == nil {
		return "", fmt.Errorf("context cannot be nil")
	}
	if secretName == "" {
		return "", fmt.Errorf("secret name cannot be empty")
	}

	if c.logger != nil {
		c.logger.InfoContext(ctx, "retrieving secret", "secret_name", secretName)
	}

	output, err := c.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretName),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.ErrorCode() {
			case ResourceNotFoundException:
				return "", c.handleError(ErrSecretNotFound, "GetSecret")
			case AccessDeniedException:
				return "", c.handleError(ErrAccessDenied, "GetSecret")
			}
		}

		if c.logger != nil {
			c.logger.ErrorContext(ctx, "failed to retrieve secret",
				"secret_name", secretName,
				"error", err)
		}
		return "", c.handleError(err, "GetSecret")
	}

	var value string
	switch {
	case output.SecretString != nil:
		value = *output.SecretString
	case output.SecretBinary != nil:
		value = string(output.SecretBinary)
	}
	if value == "" {
		return "", c.handleError(ErrSecretEmpty, "GetSecret")
	}

	if c.logger != nil {
		c.logger.InfoContext(ctx, "secret retrieved successfully", "secret_name", secretName)
	}
	return value, nil
}

// GetSecretField resolves secretName and returns one field of it. With an
// empty field the whole value is returned, trimmed of surrounding whitespace.
// Otherwise the value must be a JSON object whose field is a non-empty string.
func (c *Client) GetSecretField(ctx context.Context, secretName, field string) (string, error) {
	value, err := c.GetSecret(ctx, secretName)
	if err != nil {
		return "", err
	}

	if field == "" {
		value = strings.TrimSpace(value)
		if value == "" {
			return "", ErrSecretEmpty
		}
		return value, nil
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(value), &fields); err != nil {
		return "", ErrMalformedSecret
	}
	s, _ := fields[field].(string)
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("field %q: %w", field, ErrSecretEmpty)
	}
	return strings.TrimSpace(s), nil
}
