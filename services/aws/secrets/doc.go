// Package secrets resolves credentials held in AWS Secrets Manager.
//
// The command endpoint authenticates with a bearer token. Rather than pass the
// token on the command line, operators may store it in Secrets Manager, either
// as a plain string or as a field of a JSON object:
//
//	client, err := secrets.NewClient(ctx, secrets.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	token, err := client.GetSecretField(ctx, "event-tournament/dev01", "token")
//
// # Security
//
// The package never logs secret values; only secret names and operation
// metadata. Typed errors (ErrSecretNotFound, ErrSecretEmpty, ErrAccessDenied)
// stay actionable without echoing what was read.
//
// The caller needs secretsmanager:GetSecretValue on the secret, and
// kms:Decrypt when it is encrypted with a customer-managed key.
//
// # Thread safety
//
// Client methods are safe for concurrent use. The AWS SDK v2 client is
// thread-safe and the retryer is immutable.
package secrets
