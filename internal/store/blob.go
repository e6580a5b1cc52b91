// Package store persists the price-history dataset as a single parquet blob.
package store

import (
	"context"
	"errors"
)

// ErrNotExist means the dataset blob was never written. Expected on the first
// run; every other load failure is fatal.
var ErrNotExist = errors.New("store: dataset blob does not exist")

// BlobStore reads and writes one named binary blob. The two implementations
// (local file, S3-compatible object) are selected by configuration and never
// used together.
type BlobStore interface {
	// Load returns the full blob, or ErrNotExist when it was never written.
	Load(ctx context.Context) ([]byte, error)
	// Save overwrites the blob in one write.
	Save(ctx context.Context, data []byte) error
	// Where describes the blob location for logs.
	Where() string
}
