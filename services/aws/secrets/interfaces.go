package secrets

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// ManagerAPI is the subset of the Secrets Manager client used to resolve
// credentials.
type ManagerAPI interface {
	// GetSecretValue retrieves the value of a secret from AWS Secrets Manager.
	GetSecretValue(
		ctx context.Context,
		params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options),
	) (*secretsmanager.GetSecretValueOutput, error)
}
