package objectstore

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when the addressed object does not exist.
// Absence is a normal state for customer policy documents.
var ErrNotFound = errors.New("object not found")

// ObjectStore is the storage contract for policy documents and the
// ingestion corpus.
type ObjectStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
}
