package validation

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"unicode"

	"github.com/alpha-prosoft/eventseed/aws/s3/errors"
)

var mimePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-+.]*/[a-zA-Z0-9][a-zA-Z0-9\-+.]*(\s*;.*)?$`)

// ValidateBucketName validates that a bucket name is DNS-compliant according to AWS S3 rules.
// Account-prefixed names such as "123456789012-dev01-store" are valid.
func ValidateBucketName(bucket string) error {
	fail := func(msg string) error {
		return errors.NewError("validateBucketName", errors.ErrInvalidBucketName).
			WithBucket(bucket).
			WithMessage(msg)
	}

	if bucket == "" {
		return fail("bucket name cannot be empty")
	}
	if len(bucket) < 3 || len(bucket) > 63 {
		return fail("bucket name must be between 3 and 63 characters long")
	}
	for _, char := range bucket {
		if !isValidBucketChar(char) {
			return fail("bucket name can only contain lowercase letters, numbers, dots, and hyphens")
		}
	}
	if !isAlnum(bucket[0]) || !isAlnum(bucket[len(bucket)-1]) {
		return fail("bucket name must start and end with a letter or number")
	}
	if strings.Contains(bucket, "..") {
		return fail("bucket name cannot contain two adjacent periods")
	}
	if isIPAddress(bucket) {
		return fail("bucket name cannot be formatted as an IP address")
	}
	return nil
}

// ValidateObjectKey validates that an object key is valid according to AWS S3 rules.
// This includes preventing path traversal and control characters.
func ValidateObjectKey(key string) error {
	fail := func(msg string) error {
		return errors.NewError("validateObjectKey", errors.ErrInvalidObjectKey).
			WithKey(key).
			WithMessage(msg)
	}

	if key == "" {
		return fail("object key cannot be empty")
	}
	if hasPathTraversal(key) {
		return fail("object key cannot contain path traversal sequences")
	}
	if len(key) > 1024 {
		return fail("object key cannot exceed 1024 characters")
	}
	if hasControlCharacters(key) {
		return fail("object key cannot contain control characters")
	}
	return nil
}

// ValidateMetadata validates user metadata keys and values.
func ValidateMetadata(metadata map[string]string) error {
	for key, value := range metadata {
		if err := validateMetadataKey(key); err != nil {
			return err
		}
		if err := validateMetadataValue(value); err != nil {
			return err
		}
	}
	return nil
}

// ValidateContentType validates that a content type looks like a MIME type.
// An empty content type is allowed.
func ValidateContentType(contentType string) error {
	if contentType == "" {
		return nil
	}
	if !mimePattern.MatchString(contentType) {
		return errors.NewError("validateContentType", errors.ErrInvalidInput).
			WithMessage(fmt.Sprintf("content type %q must be a valid MIME type", contentType))
	}
	return nil
}

func isAlnum(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z')
}

func isValidBucketChar(char rune) bool {
	return (char >= '0' && char <= '9') || (char >= 'a' && char <= 'z') || char == '.' || char == '-'
}

// isIPAddress checks if a string is formatted as a dotted IPv4 address
func isIPAddress(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return false
	}
	for _, part := range parts {
		if part == "" || len(part) > 3 {
			return false
		}
		for _, char := range part {
			if char < '0' || char > '9' {
				return false
			}
		}
	}
	return true
}

func hasPathTraversal(key string) bool {
	if strings.Contains(key, "..") {
		return true
	}
	if strings.HasPrefix(path.Clean(key), "/") {
		return true
	}
	// Windows-style absolute paths
	return len(key) >= 3 && key[1] == ':' && (key[2] == '\\' || key[2] == '/')
}

func hasControlCharacters(key string) bool {
	for _, char := range key {
		if unicode.IsControl(char) {
			return true
		}
	}
	return false
}

func validateMetadataKey(key string) error {
	if key == "" {
		return errors.NewError("validateMetadata", errors.ErrInvalidInput).
			WithMessage("metadata key cannot be empty")
	}
	if len(key) > 128 {
		return errors.NewError("validateMetadata", errors.ErrInvalidInput).
			WithMessage("metadata key cannot exceed 128 characters")
	}
	lower := strings.ToLower(key)
	for _, prefix := range []string{"aws:", "x-amz-", "x-amz:"} {
		if strings.HasPrefix(lower, prefix) {
			return errors.NewError("validateMetadata", errors.ErrInvalidInput).
				WithMessage(fmt.Sprintf("metadata key cannot start with reserved prefix: %s", prefix))
		}
	}
	for _, char := range key {
		if char <= 32 || char > 126 {
			return errors.NewError("validateMetadata", errors.ErrInvalidInput).
				WithMessage("metadata key can only contain printable ASCII characters")
		}
	}
	return nil
}

func validateMetadataValue(value string) error {
	if len(value) > 2048 {
		return errors.NewError("validateMetadata", errors.ErrInvalidInput).
			WithMessage("metadata value cannot exceed 2048 characters")
	}
	for _, char := range value {
		if !unicode.IsPrint(char) && char != '\t' {
			return errors.NewError("validateMetadata", errors.ErrInvalidInput).
				WithMessage("metadata value can only contain printable characters")
		}
	}
	return nil
}
