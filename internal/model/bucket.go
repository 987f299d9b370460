package model

import "time"

// Reserved identity of the implicit fallback bucket. It is never stored.
const (
	UncategorizedID    = "uncategorized"
	UncategorizedTitle = "Uncategorized"
)

// Bucket is a user-defined categorization target. Prompt is the free-text
// description handed to the model.
type Bucket struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Prompt    string    `json:"prompt" db:"prompt"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// BucketRef points either at a real Bucket or at the Uncategorized
// pseudo-bucket. The zero value is Uncategorized.
type BucketRef struct {
	bucket *Bucket
}

// RefTo returns a reference to b.
func RefTo(b Bucket) BucketRef {
	return BucketRef{bucket: &b}
}

// Uncategorized returns a reference to the fallback pseudo-bucket.
func Uncategorized() BucketRef {
	return BucketRef{}
}

// IsUncategorized reports whether r is the fallback pseudo-bucket.
func (r BucketRef) IsUncategorized() bool {
	return r.bucket == nil
}

// Bucket returns the referenced bucket and true, or false for
// Uncategorized.
func (r BucketRef) Bucket() (Bucket, bool) {
	if r.bucket == nil {
		return Bucket{}, false
	}
	return *r.bucket, true
}

// ID returns the bucket id, or UncategorizedID.
func (r BucketRef) ID() string {
	if r.bucket == nil {
		return UncategorizedID
	}
	return r.bucket.ID
}

// Title returns the bucket title, or UncategorizedTitle.
func (r BucketRef) Title() string {
	if r.bucket == nil {
		return UncategorizedTitle
	}
	return r.bucket.Title
}
