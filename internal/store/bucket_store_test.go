package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mailbuckets/internal/store"
	"github.com/nhle/mailbuckets/internal/testutil"
)

func strPtr(s string) *string { return &s }

func TestCreateBucket(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	b, err := s.CreateBucket(ctx, "Resignations", "Employee exits and notice periods")
	require.NoError(t, err)

	assert.NotEmpty(t, b.ID)
	assert.Equal(t, "Resignations", b.Title)
	assert.Equal(t, "Employee exits and notice periods", b.Prompt)
	assert.False(t, b.CreatedAt.IsZero())

	got, err := s.GetBucket(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, b.ID, got.ID)
	assert.Equal(t, b.Title, got.Title)
	assert.Equal(t, b.Prompt, got.Prompt)
	assert.True(t, b.CreatedAt.Equal(got.CreatedAt))
}

func TestCreateBucketGeneratesUniqueIDs(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	a, err := s.CreateBucket(ctx, "A", "first")
	require.NoError(t, err)
	b, err := s.CreateBucket(ctx, "A", "first")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestListBucketsInsertionOrder(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	assert.Empty(t, s.ListBuckets(ctx))
	assert.NotNil(t, s.ListBuckets(ctx))

	titles := []string{"Zeta", "Alpha", "Mid"}
	var ids []string
	for _, title := range titles {
		b, err := s.CreateBucket(ctx, title, title+" mail")
		require.NoError(t, err)
		ids = append(ids, b.ID)
	}

	buckets := s.ListBuckets(ctx)
	require.Len(t, buckets, 3)
	for i, b := range buckets {
		assert.Equal(t, ids[i], b.ID)
		assert.Equal(t, titles[i], b.Title)
	}
}

func TestGetBucketMissing(t *testing.T) {
	s := testutil.NewTestStore(t)

	got, err := s.GetBucket(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdateBucketPartial(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	b, err := s.CreateBucket(ctx, "Invoices", "Bills and receipts")
	require.NoError(t, err)

	ok, err := s.UpdateBucket(ctx, b.ID, strPtr("Finance"), nil)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := s.GetBucket(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Finance", got.Title)
	assert.Equal(t, "Bills and receipts", got.Prompt)
	assert.True(t, b.CreatedAt.Equal(got.CreatedAt))

	ok, err = s.UpdateBucket(ctx, b.ID, nil, strPtr("Anything with money"))
	require.NoError(t, err)
	assert.True(t, ok)

	got, err = s.GetBucket(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Finance", got.Title)
	assert.Equal(t, "Anything with money", got.Prompt)
}

func TestUpdateBucketUnknown(t *testing.T) {
	s := testutil.NewTestStore(t)

	ok, err := s.UpdateBucket(context.Background(), "missing", strPtr("x"), nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteBucketIdempotent(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	b, err := s.CreateBucket(ctx, "News", "Newsletters")
	require.NoError(t, err)

	ok, err := s.DeleteBucket(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.DeleteBucket(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Empty(t, s.ListBuckets(ctx))
}

func TestClosedStoreFailures(t *testing.T) {
	s, err := store.NewSQLiteStore(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	ctx := context.Background()

	_, err = s.CreateBucket(ctx, "x", "y")
	require.Error(t, err)
	assert.True(t, store.IsStoreError(err))

	_, err = s.DeleteBucket(ctx, "x")
	assert.True(t, store.IsStoreError(err))

	_, err = s.UpdateBucket(ctx, "x", strPtr("t"), nil)
	assert.True(t, store.IsStoreError(err))

	buckets := s.ListBuckets(ctx)
	assert.NotNil(t, buckets)
	assert.Empty(t, buckets)
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "buckets.db")
	ctx := context.Background()

	s, err := store.NewSQLiteStore(path, nil)
	require.NoError(t, err)
	b, err := s.CreateBucket(ctx, "Travel", "Flights and hotels")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = store.NewSQLiteStore(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	buckets := s.ListBuckets(ctx)
	require.Len(t, buckets, 1)
	assert.Equal(t, b.ID, buckets[0].ID)
}
