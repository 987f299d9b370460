// Package bucketfile reads and writes bucket definitions as YAML so they
// can be shared between machines.
package bucketfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nhle/mailbuckets/internal/model"
	"github.com/nhle/mailbuckets/internal/store"
)

const currentVersion = 1

// File is the on-disk document.
type File struct {
	Version int     `yaml:"version"`
	Buckets []Entry `yaml:"buckets"`
}

// Entry is one exported bucket. Ids are not exported; they are assigned
// again on import.
type Entry struct {
	Title  string `yaml:"title"`
	Prompt string `yaml:"prompt"`
}

// Write encodes buckets to w in store order.
func Write(w io.Writer, buckets []model.Bucket) error {
	f := File{Version: currentVersion, Buckets: make([]Entry, 0, len(buckets))}
	for _, b := range buckets {
		f.Buckets = append(f.Buckets, Entry{Title: b.Title, Prompt: b.Prompt})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encoding buckets: %w", err)
	}
	return enc.Close()
}

// Read decodes and validates a bucket file.
func Read(r io.Reader) ([]Entry, error) {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decoding buckets: %w", err)
	}
	if f.Version > currentVersion {
		return nil, fmt.Errorf("unsupported bucket file version %d", f.Version)
	}

	for i, e := range f.Buckets {
		if strings.TrimSpace(e.Title) == "" {
			return nil, fmt.Errorf("bucket %d: title is required", i+1)
		}
		if strings.TrimSpace(e.Prompt) == "" {
			return nil, fmt.Errorf("bucket %d (%s): prompt is required", i+1, e.Title)
		}
	}

	return f.Buckets, nil
}

// Import creates each entry in s, in file order, skipping entries whose
// title already exists (case-insensitive). It returns the created buckets.
func Import(ctx context.Context, s store.BucketStore, entries []Entry) ([]model.Bucket, error) {
	existing := make(map[string]bool)
	for _, b := range s.ListBuckets(ctx) {
		existing[strings.ToLower(b.Title)] = true
	}

	var created []model.Bucket
	for _, e := range entries {
		key := strings.ToLower(e.Title)
		if existing[key] {
			continue
		}

		b, err := s.CreateBucket(ctx, e.Title, e.Prompt)
		if err != nil {
			return created, fmt.Errorf("importing bucket %q: %w", e.Title, err)
		}
		existing[key] = true
		created = append(created, b)
	}

	return created, nil
}
