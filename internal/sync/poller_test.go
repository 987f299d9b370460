package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mailbuckets/internal/categorize"
	"github.com/nhle/mailbuckets/internal/mail"
	"github.com/nhle/mailbuckets/internal/model"
)

type fakeFetcher struct {
	emails []*model.Email
	err    error
	limit  int
}

func (f *fakeFetcher) FetchUnread(_ context.Context, limit int) ([]*model.Email, error) {
	f.limit = limit
	return f.emails, f.err
}

type fakeCategorizer struct {
	seen []string
}

func (c *fakeCategorizer) CategorizeAll(
	_ context.Context,
	emails []*model.Email,
	buckets []model.Bucket,
	progress func(done, total int),
) []model.Categorization {
	results := make([]model.Categorization, 0, len(emails))
	for i, e := range emails {
		c.seen = append(c.seen, e.UID)
		results = append(results, model.Categorization{Email: e, Bucket: model.RefTo(buckets[0]), Confidence: 0.9})
		progress(i+1, len(emails))
	}
	return results
}

var _ Categorizer = (*categorize.Engine)(nil)

type fakeBuckets []model.Bucket

func (b fakeBuckets) ListBuckets(context.Context) []model.Bucket { return b }

func emails(uids ...string) []*model.Email {
	out := make([]*model.Email, 0, len(uids))
	for _, uid := range uids {
		out = append(out, model.NewEmail(uid, "s", "f", time.Now(), "b", ""))
	}
	return out
}

func TestRunCategorizesInOrder(t *testing.T) {
	f := &fakeFetcher{emails: emails("3", "2", "1")}
	c := &fakeCategorizer{}
	p := New(f, c, fakeBuckets{{ID: "w", Title: "Work"}}, Config{Limit: 25}, nil)

	res := p.Run(context.Background())

	require.NoError(t, res.Error)
	assert.False(t, res.NoBuckets)
	require.Len(t, res.Results, 3)
	assert.Equal(t, []string{"3", "2", "1"}, c.seen)
	assert.Equal(t, 25, f.limit)
	assert.Equal(t, "w", res.Results[0].BucketID())
	assert.Equal(t, SyncIdle, p.Status().State)

	for i := 1; i <= 3; i++ {
		msg := <-p.msgCh
		assert.Equal(t, ProgressMsg{Done: i, Total: 3}, msg)
	}
}

func TestRunWithoutBucketsSkipsCategorization(t *testing.T) {
	c := &fakeCategorizer{}
	p := New(&fakeFetcher{emails: emails("1")}, c, fakeBuckets{}, Config{}, nil)

	res := p.Run(context.Background())

	assert.True(t, res.NoBuckets)
	assert.Empty(t, res.Results)
	assert.Empty(t, c.seen)
}

func TestRunFetchError(t *testing.T) {
	p := New(&fakeFetcher{err: errors.New("timeout")}, &fakeCategorizer{}, fakeBuckets{}, Config{}, nil)

	res := p.Run(context.Background())

	require.Error(t, res.Error)
	assert.Nil(t, res.AuthError)
	assert.Equal(t, SyncError, p.Status().State)
}

func TestRunAuthError(t *testing.T) {
	err := &mail.AuthError{Address: "me@example.com", Err: errors.New("bad password")}
	p := New(&fakeFetcher{err: err}, &fakeCategorizer{}, fakeBuckets{}, Config{}, nil)

	res := p.Run(context.Background())

	require.NotNil(t, res.AuthError)
	assert.Contains(t, res.AuthError.Message, "mailbuckets login")
}

func TestStartDeliversResult(t *testing.T) {
	p := New(&fakeFetcher{emails: emails("1")}, &fakeCategorizer{}, fakeBuckets{{ID: "w"}}, Config{}, nil)
	defer p.Stop()

	cmd := p.Start()
	require.NotNil(t, cmd)
	assert.Nil(t, p.Start())

	var result SyncResultMsg
	for {
		msg := cmd()
		if r, ok := msg.(SyncResultMsg); ok {
			result = r
			break
		}
		require.IsType(t, ProgressMsg{}, msg)
		cmd = p.WaitForNext()
	}
	assert.Len(t, result.Results, 1)
}
