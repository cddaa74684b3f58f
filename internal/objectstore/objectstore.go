// Package objectstore reads and writes whole objects in a bucket.
package objectstore

import (
	"context"
	"errors"
)

const DefaultContentType = "application/octet-stream"

var (
	ErrNotFound  = errors.New("object not found")
	ErrEmptyBody = errors.New("no file body received from object store")
)

// Object is a fully buffered object with its declared content type and user metadata.
type Object struct {
	Body        []byte
	ContentType string
	Metadata    map[string]string
}

// Store is the get/put contract used by the upload and process services.
// Each call is a single-object operation; nothing spans objects.
type Store interface {
	Get(ctx context.Context, bucket, key string) (Object, error)
	Put(ctx context.Context, bucket, key string, obj Object) error
}
