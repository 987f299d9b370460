package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestContentHeight(t *testing.T) {
	assert.Equal(t, 21, NewLayout(80, 24).ContentHeight())
	assert.Equal(t, 0, NewLayout(80, 2).ContentHeight())
}

func TestRenderWithFrameFillsHeight(t *testing.T) {
	l := NewLayout(40, 10)

	out := l.RenderWithFrame(
		l.RenderHeader("mailbuckets", "idle"),
		l.RenderNotice(""),
		"one line",
		l.RenderStatusBar("q quit"),
	)

	assert.Equal(t, 10, lipgloss.Height(out))
	assert.True(t, strings.Contains(out, "mailbuckets"))
	assert.True(t, strings.Contains(out, "q quit"))
}
