// Package s3 provides a small S3 client for single-object aggregate storage.
// It wraps AWS SDK v2 behind functional options and exposes the two
// operations the aggregate store needs:
//
//   - Exists: HEAD request, reporting "not found" as (false, nil)
//   - Put: unconditional single-request upload with content type detection
//
// Example usage:
//
//	client, err := s3.New(
//	    s3.WithRegion("eu-central-1"),
//	    s3.WithMaxRetries(3),
//	)
//	if err != nil {
//	    return err
//	}
//
//	found, err := client.Exists(ctx, "my-bucket", "aggregates/svc/prod/id.json")
//	if err != nil {
//	    return err
//	}
package s3
