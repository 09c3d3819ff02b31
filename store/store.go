// Package store abstracts the object store the event service keeps aggregate
// snapshots in. Backends: S3 (aws-sdk-go-v2), MinIO (minio-go) and an
// in-memory store for tests and dry runs.
package store

import (
	"context"
	"fmt"

	"github.com/alpha-prosoft/eventseed/errors"
)

// ObjectStore is a key/value blob store with read-after-write semantics that
// may lag behind other writers.
type ObjectStore interface {
	// Exists reports whether an object is stored under key. A missing object
	// is (false, nil); any other failure is an error.
	Exists(ctx context.Context, key string) (bool, error)

	// Put stores data under key, replacing any existing object.
	Put(ctx context.Context, key string, data []byte) error

	// Location returns a human readable address of key for logs.
	Location(key string) string
}

// ContentType is the content type aggregate documents are stored with.
const ContentType = "application/json"

// AggregateKey returns the object key of an event's aggregate snapshot:
// aggregates/<service>/<stage>/<event-id>.json. eventID must be the plain form.
func AggregateKey(service, stage, eventID string) string {
	return fmt.Sprintf("aggregates/%s/%s/%s.json", service, stage, eventID)
}

func accessError(err error, op string, s ObjectStore, key string) error {
	return errors.WrapWithContext(
		err,
		errors.CodeStoreAccess,
		op+" failed",
		map[string]interface{}{
			"location": s.Location(key),
		},
	)
}
