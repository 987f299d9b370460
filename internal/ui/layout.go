package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailbuckets/internal/theme"
)

// Layout manages the terminal layout dimensions: a header, an optional
// notice line, the content area, and a status bar.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	NoticeHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		NoticeHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height left for the active view.
func (l Layout) ContentHeight() int {
	h := l.Height - l.HeaderHeight - l.NoticeHeight - l.StatusBarHeight
	if h < 0 {
		return 0
	}
	return h
}

// RenderHeader renders the top bar with a title on the left and the sync
// state on the right.
func (l Layout) RenderHeader(title string, syncStatus string) string {
	titleRendered := theme.HeaderStyle.Render(title)
	statusRendered := theme.HeaderStyle.Align(lipgloss.Right).Render(syncStatus)

	gap := max(0, l.Width-lipgloss.Width(titleRendered)-lipgloss.Width(statusRendered))
	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.HeaderStyle.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, titleRendered, filler, statusRendered)
}

// RenderNotice renders the line under the header. It holds the progress
// bar while categorizing, and warnings otherwise. An empty notice still
// occupies its line so the content does not jump.
func (l Layout) RenderNotice(notice string) string {
	return lipgloss.NewStyle().
		Width(l.Width).
		MaxHeight(l.NoticeHeight).
		PaddingLeft(1).
		Render(notice)
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	rendered := theme.StatusBarStyle.Render(hints)

	gap := max(0, l.Width-lipgloss.Width(rendered))
	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.StatusBarStyle.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler)
}

// RenderWithFrame stacks the header, notice, content and status bar.
func (l Layout) RenderWithFrame(header, notice, content, statusBar string) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		notice,
		lipgloss.NewStyle().Height(l.ContentHeight()).MaxHeight(l.ContentHeight()).Render(content),
		statusBar,
	)
}
