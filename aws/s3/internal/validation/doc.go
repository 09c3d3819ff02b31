// Package validation checks bucket names, object keys, metadata and content
// types before they are sent to S3.
package validation
