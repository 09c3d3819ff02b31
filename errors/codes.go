// Package errors provides the error handling system for eventseed.
// It extends Go's standard error handling with structured error codes,
// fatality classification and context preservation.
package errors

// ErrorCode represents a specific error condition in an eventseed run.
// Error codes are string-based for debuggability and natural JSON serialization.
type ErrorCode string

const (
	// Remote service errors.

	// CodeSubmissionFailed indicates the command endpoint was unreachable or
	// answered with a non-success status.
	CodeSubmissionFailed ErrorCode = "SUBMISSION_FAILED"

	// Document integrity errors.

	// CodeMissingMapping indicates an activity definition has no new identifier
	// assigned to its name, or the name is defined more than once.
	CodeMissingMapping ErrorCode = "MISSING_MAPPING"

	// CodeUnresolvedReference indicates a participant or category references an
	// activity identifier that no definition carries.
	CodeUnresolvedReference ErrorCode = "UNRESOLVED_REFERENCE"

	// Validation errors.

	// CodeInvalidInput indicates the provided input is invalid or malformed.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidConfig indicates a configuration error prevents the operation.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// CodeSchemaFailed indicates the data failed schema validation.
	CodeSchemaFailed ErrorCode = "SCHEMA_VALIDATION_FAILED"

	// Infrastructure errors.

	// CodeStoreAccess indicates an object store call failed for a reason other
	// than the object being absent.
	CodeStoreAccess ErrorCode = "STORE_ACCESS_FAILED"

	// CodeFilesystem indicates a local filesystem operation failed.
	CodeFilesystem ErrorCode = "FILESYSTEM_ERROR"

	// CodeUnauthorized indicates the authorization token could not be obtained.
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// CodeTimeout indicates an operation exceeded its time limit.
	CodeTimeout ErrorCode = "TIMEOUT"

	// System errors.

	// CodeInternal indicates an internal system error occurred.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// Generic errors.

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)

// String returns the string representation of the ErrorCode.
func (c ErrorCode) String() string {
	return string(c)
}
