// Package blobstore is the key/value blob layer user records live in. It
// hides the remote object storage behind a small interface and turns
// transport failures into common.ErrorStorageUnavailable.
package blobstore

import (
	"context"
	"time"
)

// Store is a remote key-addressed blob store.
//
// Exists never fails for a missing key. Read returns common.ErrorNotFound
// for a missing key. Write overwrites unconditionally, so the last writer
// wins. Transport, authorization and timeout failures are reported as
// common.ErrorStorageUnavailable.
type Store interface {
	Exists(ctx context.Context, key string) (bool, error)
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte, contentType string) error
}

// Creator is implemented by stores that can write a key only if it is
// absent. Create returns common.ErrorAlreadyExists when the key is taken.
type Creator interface {
	Create(ctx context.Context, key string, data []byte, contentType string) error
}

// Observer receives one call per remote operation attempt sequence.
type Observer interface {
	ObserveStorage(op string, elapsed time.Duration, err error)
}

const (
	OpExists = "exists"
	OpRead   = "read"
	OpWrite  = "write"
	OpCreate = "create"
)
