package detail

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mailbuckets/internal/keys"
	"github.com/nhle/mailbuckets/internal/model"
)

func TestRenderShowsCategorization(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 100, 40)
	summary := "Budget review moved to Friday."
	m.SetResult(model.Categorization{
		Email:      model.NewEmail("1", "Budget", "cfo@example.com", time.Now(), "Please see attached.", ""),
		Bucket:     model.RefTo(model.Bucket{ID: "f", Title: "Finance"}),
		Summary:    &summary,
		Confidence: 0.55,
	})

	out := m.View()
	assert.Contains(t, out, "Budget")
	assert.Contains(t, out, "Finance")
	assert.Contains(t, out, "medium confidence (55%)")
	assert.Contains(t, out, summary)
	assert.Contains(t, out, "Please see attached.")
}

func TestRenderFailedCategorization(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 100, 40)
	m.SetResult(model.Categorization{
		Email: model.NewEmail("1", "Hello", "a@example.com", time.Now(), "", ""),
	})

	out := m.View()
	assert.Contains(t, out, "Uncategorized")
	assert.Contains(t, out, "No summary available")
}

func TestEscGoesBack(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, BackMsg{}, cmd())
}
