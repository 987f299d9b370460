package buckets

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mailbuckets/internal/keys"
	"github.com/nhle/mailbuckets/internal/testutil"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInitLoadsBuckets(t *testing.T) {
	s := testutil.NewTestStore(t)
	_, err := s.CreateBucket(context.Background(), "Work", "Colleagues")
	require.NoError(t, err)

	m := New(s, keys.DefaultKeyMap(), 80, 24)
	m, _ = m.Update(m.Init()())

	require.Len(t, m.Buckets(), 1)
	assert.Contains(t, m.View(), "Work")
	assert.Contains(t, m.View(), "Colleagues")
}

func TestEmptyList(t *testing.T) {
	m := New(testutil.NewTestStore(t), keys.DefaultKeyMap(), 80, 24)
	m, _ = m.Update(m.Init()())

	assert.Contains(t, m.View(), "No buckets yet")
}

func TestNavigationWraps(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	for _, title := range []string{"A", "B", "C"} {
		_, err := s.CreateBucket(ctx, title, title)
		require.NoError(t, err)
	}

	m := New(s, keys.DefaultKeyMap(), 80, 24)
	m, _ = m.Update(m.Init()())

	m, _ = m.Update(runes("k"))
	assert.Equal(t, 2, m.selectedIdx)
	m, _ = m.Update(runes("j"))
	assert.Equal(t, 0, m.selectedIdx)
}

func TestFormModes(t *testing.T) {
	s := testutil.NewTestStore(t)
	_, err := s.CreateBucket(context.Background(), "Work", "Colleagues")
	require.NoError(t, err)

	m := New(s, keys.DefaultKeyMap(), 80, 24)
	m, _ = m.Update(m.Init()())

	m, _ = m.Update(runes("n"))
	assert.True(t, m.InForm())
	assert.Empty(t, m.fb.title)

	m.mode = modeList
	m, _ = m.Update(runes("e"))
	assert.True(t, m.InForm())
	assert.Equal(t, "Work", m.fb.title)
	assert.Equal(t, "Colleagues", m.fb.prompt)

	m.mode = modeList
	m, _ = m.Update(runes("d"))
	assert.Equal(t, modeConfirmDelete, m.mode)
}

func TestSaveCreatesAndUpdates(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	m := New(s, keys.DefaultKeyMap(), 80, 24)

	m.fb.title = "  Travel "
	m.fb.prompt = "Flights and hotels"
	msg := m.save()()
	m, cmd := m.Update(msg)
	require.NotNil(t, cmd)
	assert.Equal(t, "Bucket saved", m.statusMsg)

	got := s.ListBuckets(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, "Travel", got[0].Title)

	m.editingID = got[0].ID
	m.fb.title = "Trips"
	m.fb.prompt = "Flights"
	_ = m.save()()

	b, err := s.GetBucket(ctx, got[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Trips", b.Title)
	assert.Equal(t, "Flights", b.Prompt)
}

func TestDeleteReportsMissing(t *testing.T) {
	s := testutil.NewTestStore(t)
	m := New(s, keys.DefaultKeyMap(), 80, 24)

	m, _ = m.Update(m.delete("missing")())
	assert.Equal(t, "Bucket was already gone", m.statusMsg)
}

func TestEscCloses(t *testing.T) {
	m := New(testutil.NewTestStore(t), keys.DefaultKeyMap(), 80, 24)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, CloseMsg{}, cmd())
}
