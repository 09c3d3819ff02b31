package secrets

import "errors"

var (
	// ErrSecretNotFound is returned when the named secret does not exist.
	ErrSecretNotFound = errors.New("secret not found")

	// ErrSecretEmpty is returned when a secret exists but holds no value, or
	// when the requested JSON field is missing or blank.
	ErrSecretEmpty = errors.New("secret value is empty")

	// ErrAccessDenied is returned when the credentials in use may not read the
	// secret.
	ErrAccessDenied = errors.New("access denied to secret")

	// ErrMalformedSecret is returned when a field is requested from a secret
	// whose value is not a JSON object.
	ErrMalformedSecret = errors.New("secret value is not a JSON object")
)
