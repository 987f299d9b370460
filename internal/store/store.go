package store

import (
	"context"

	"github.com/nhle/mailbuckets/internal/model"
)

// BucketStore defines the persistence interface for bucket definitions.
// Mutations surface failures as *StoreError; reads degrade to empty
// results so callers can keep offering the Uncategorized fallback.
type BucketStore interface {
	// CreateBucket persists a new bucket with a fresh id and timestamp.
	CreateBucket(ctx context.Context, title, prompt string) (model.Bucket, error)

	// ListBuckets returns all buckets in insertion order. It returns an
	// empty slice when the store is empty or cannot be read.
	ListBuckets(ctx context.Context) []model.Bucket

	// GetBucket returns the bucket with the given id, or nil if absent.
	GetBucket(ctx context.Context, id string) (*model.Bucket, error)

	// UpdateBucket replaces the title and/or prompt of an existing bucket.
	// Nil arguments keep the stored value. Returns false if id is unknown.
	UpdateBucket(ctx context.Context, id string, title, prompt *string) (bool, error)

	// DeleteBucket removes a bucket. Returns false if it did not exist.
	DeleteBucket(ctx context.Context, id string) (bool, error)
}
