package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailbuckets/internal/keys"
	"github.com/nhle/mailbuckets/internal/model"
	"github.com/nhle/mailbuckets/internal/theme"
)

// BackMsg signals the parent to navigate back to the inbox.
type BackMsg struct{}

// Model is the email detail view.
type Model struct {
	result   *model.Categorization
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a new detail view model.
func New(keys *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     keys,
		width:    width,
		height:   height,
	}
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Back) {
		return m, func() tea.Msg { return BackMsg{} }
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.result == nil {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No email selected")
	}

	return m.viewport.View()
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.result == nil {
		return ""
	}

	r := m.result
	e := r.Email
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(e.Subject))

	level := r.Level()
	badgeLine := lipgloss.JoinHorizontal(
		lipgloss.Top,
		theme.BucketStyle(r.Bucket).Render(r.BucketTitle()),
		"  ",
		theme.ConfidenceStyle(level).Render(
			fmt.Sprintf("%s confidence (%.0f%%)", level, r.Confidence*100),
		),
	)
	sections = append(sections, badgeLine, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	sections = append(sections,
		fmt.Sprintf("%s  %s", metaStyle.Render("From:"), valStyle.Render(e.Sender)),
		fmt.Sprintf("%s  %s", metaStyle.Render("Date:"), valStyle.Render(e.Date.Format("2006-01-02 15:04"))),
	)

	separator := lipgloss.NewStyle().
		Foreground(theme.ColorSubtle).
		Render(strings.Repeat("─", max(0, min(m.width-4, 80))))
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)
	missing := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true)

	sections = append(sections, "", separator, "", headerStyle.Render("Summary"))
	if r.Summary != nil && *r.Summary != "" {
		sections = append(sections, lipgloss.NewStyle().Width(max(20, m.width-4)).Render(*r.Summary))
	} else {
		sections = append(sections, missing.Render("No summary available"))
	}

	sections = append(sections, "", separator, "", headerStyle.Render("Message"))
	body := e.Body
	if strings.TrimSpace(body) == "" {
		body = missing.Render("Empty message")
	}
	sections = append(sections, lipgloss.NewStyle().Width(max(20, m.width-4)).Render(body))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetResult updates the email being displayed and re-renders the content.
func (m *Model) SetResult(r model.Categorization) {
	m.result = &r
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	if m.result != nil {
		m.viewport.SetContent(m.renderContent())
	}
}
