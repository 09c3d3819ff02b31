package secrets

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
)

const (
	defaultMaxAttempts = 5
	defaultBaseDelay   = 100 * time.Millisecond
	defaultMaxDelay    = 5 * time.Second
)

// createCustomRetryer returns the retryer used unless WithRetryer overrides
// it: five attempts with backoff from 100ms capped at 5s.
//
//nolint:ireturn // SDK options take the interface
func createCustomRetryer() aws.Retryer {
	return &CustomRetryer{
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
		maxDelay:    defaultMaxDelay,
	}
}
