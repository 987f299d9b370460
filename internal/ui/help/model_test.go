package help

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/mailbuckets/internal/keys"
	"github.com/nhle/mailbuckets/internal/ui/command"
)

func TestViewListsKeysCommandsAndLegend(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 120, 40)

	v := m.View()

	assert.Contains(t, v, "Keyboard Shortcuts")
	assert.Contains(t, v, "fetch & categorize")
	assert.Contains(t, v, "manage buckets")
	for _, k := range command.Known {
		assert.Contains(t, v, k.Name)
	}
	assert.Contains(t, v, "high (> 70%)")
	assert.Contains(t, v, "medium (> 40%)")
}

func TestSetSizeResizesPanel(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 40, 10)
	m.SetSize(120, 40)

	assert.Equal(t, 120, m.width)
	assert.Equal(t, 116, m.help.Width)
	assert.NotEmpty(t, m.View())
}
