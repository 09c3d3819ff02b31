package secrets

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/smithy-go"
)

// CustomRetryer implements aws.Retryer with exponential backoff and jitter.
// It retries only throttling errors.
type CustomRetryer struct {
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
}

// MaxAttempts returns the maximum number of attempts, including the first.
func (r *CustomRetryer) MaxAttempts() int {
	return r.maxAttempts
}

// RetryDelay returns baseDelay * 2^(attempt-1) with ±25% jitter, capped at
// maxDelay.
func (r *CustomRetryer) RetryDelay(attempt int, _ error) (time.Duration, error) {
	delay := time.Duration(math.Pow(2, float64(attempt-1))) * r.baseDelay

	jitterRange := int64(float64(delay) * 0.25)
	if jitterRange > 0 {
		delay += time.Duration(rand.Int63n(2*jitterRange) - jitterRange) //nolint:gosec // jitter only
	}

	if delay > r.maxDelay {
		delay = r.maxDelay
	}
	if delay < 0 {
		delay = 0
	}
	return delay, nil
}

// IsErrorRetryable reports whether err is a transient throttling error.
func (r *CustomRetryer) IsErrorRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ThrottlingException",
			"ProvisionedThroughputExceededException",
			"RequestLimitExceeded",
			"TooManyRequestsException":
			return true
		}
	}
	return false
}

// GetRetryToken always grants a retry.
func (r *CustomRetryer) GetRetryToken(context.Context, error) (func(error) error, error) {
	return func(error) error { return nil }, nil
}

// GetInitialToken returns a no-op release function.
func (r *CustomRetryer) GetInitialToken() func(error) error {
	return func(error) error { return nil }
}

var _ aws.Retryer = (*CustomRetryer)(nil)

type clientOptions struct {
	logger  *slog.Logger
	retryer aws.Retryer
}

// Option configures a Client.
type Option func(*clientOptions)

// WithLogger sets the client logger. A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *clientOptions) {
		opts.logger = logger
	}
}

// WithRetryer replaces the SDK retryer. It only applies to clients built from
// an aws.Config.
func WithRetryer(retryer aws.Retryer) Option {
	return func(opts *clientOptions) {
		opts.retryer = retryer
	}
}

func defaultOptions() *clientOptions {
	return &clientOptions{
		retryer: createCustomRetryer(),
	}
}

func applyOptions(opts *clientOptions, options []Option) {
	for _, option := range options {
		option(opts)
	}
}
