// Package artifact exports generated study materials as durable objects, so
// a class of students can share what one account already generated.
package artifact

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("artifact: not found")

// Store is an object store scoped by topic. Implementations: S3Store
// (minio/S3) and DiskStore (local fallback).
type Store interface {
	Put(ctx context.Context, topicID, name string, content []byte) error
	Get(ctx context.Context, topicID, name string) ([]byte, error)
	List(ctx context.Context, topicID string) ([]string, error)
}
