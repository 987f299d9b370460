package store

import (
	"errors"
	"fmt"
)

// StoreError reports a failed bucket persistence operation.
type StoreError struct {
	Op       string
	BucketID string
	Err      error
}

func (e *StoreError) Error() string {
	if e.BucketID != "" {
		return fmt.Sprintf("store %s bucket %s: %v", e.Op, e.BucketID, e.Err)
	}
	return fmt.Sprintf("store %s bucket: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsStoreError reports whether err (or any error in its chain) is a StoreError.
func IsStoreError(err error) bool {
	var storeErr *StoreError
	return errors.As(err, &storeErr)
}
