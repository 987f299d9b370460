package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nhle/mailbuckets/internal/model"
)

var _ BucketStore = (*SQLiteStore)(nil)

// CreateBucket inserts a new bucket. The prompt is the document column;
// title and created_at are the structured columns.
func (s *SQLiteStore) CreateBucket(
	ctx context.Context,
	title, prompt string,
) (model.Bucket, error) {
	b := model.Bucket{
		ID:        uuid.New().String(),
		Title:     title,
		Prompt:    prompt,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO buckets (id, title, prompt, created_at)
		VALUES (?, ?, ?, ?)`,
		b.ID, b.Title, b.Prompt, b.CreatedAt,
	)
	if err != nil {
		s.logger.Error("failed to create bucket",
			zap.String("title", title),
			zap.Error(err),
		)
		return model.Bucket{}, &StoreError{Op: "create", Err: err}
	}

	s.logger.Info("created bucket",
		zap.String("bucket_id", b.ID),
		zap.String("title", title),
	)

	return b, nil
}

// ListBuckets retrieves all buckets in insertion order. Read failures are
// logged and reported as an empty list.
func (s *SQLiteStore) ListBuckets(ctx context.Context) []model.Bucket {
	var buckets []model.Bucket
	err := s.db.SelectContext(ctx, &buckets, `
		SELECT id, title, prompt, created_at
		FROM buckets
		ORDER BY seq`,
	)
	if err != nil {
		s.logger.Error("failed to list buckets", zap.Error(err))
		return []model.Bucket{}
	}

	if buckets == nil {
		buckets = []model.Bucket{}
	}

	s.logger.Debug("listed buckets", zap.Int("count", len(buckets)))

	return buckets
}

// GetBucket retrieves a single bucket by its id. It returns nil, nil when
// no such bucket exists.
func (s *SQLiteStore) GetBucket(
	ctx context.Context,
	id string,
) (*model.Bucket, error) {
	var b model.Bucket
	err := s.db.GetContext(ctx, &b, `
		SELECT id, title, prompt, created_at
		FROM buckets
		WHERE id = ?`,
		id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &StoreError{Op: "get", BucketID: id, Err: err}
	}

	return &b, nil
}

// UpdateBucket replaces the title and/or prompt of an existing bucket.
// created_at is preserved.
func (s *SQLiteStore) UpdateBucket(
	ctx context.Context,
	id string,
	title, prompt *string,
) (bool, error) {
	existing, err := s.GetBucket(ctx, id)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}

	newTitle := existing.Title
	if title != nil {
		newTitle = *title
	}
	newPrompt := existing.Prompt
	if prompt != nil {
		newPrompt = *prompt
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE buckets SET title = ?, prompt = ? WHERE id = ?",
		newTitle, newPrompt, id,
	)
	if err != nil {
		return false, &StoreError{Op: "update", BucketID: id, Err: err}
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, &StoreError{Op: "update", BucketID: id, Err: err}
	}

	s.logger.Info("updated bucket", zap.String("bucket_id", id))

	return n > 0, nil
}

// DeleteBucket removes a bucket by id. Deleting an unknown id is not an
// error.
func (s *SQLiteStore) DeleteBucket(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM buckets WHERE id = ?", id)
	if err != nil {
		return false, &StoreError{Op: "delete", BucketID: id, Err: err}
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, &StoreError{Op: "delete", BucketID: id, Err: err}
	}

	if n > 0 {
		s.logger.Info("deleted bucket", zap.String("bucket_id", id))
	}

	return n > 0, nil
}
