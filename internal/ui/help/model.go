package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailbuckets/internal/keys"
	"github.com/nhle/mailbuckets/internal/model"
	"github.com/nhle/mailbuckets/internal/theme"
	"github.com/nhle/mailbuckets/internal/ui/command"
)

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	h.ShowAll = true
	return Model{
		keys:   keys,
		help:   h,
		width:  width,
		height: height,
	}
}

// View renders the key bindings, the palette commands, and the confidence
// legend.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	var cmds strings.Builder
	for _, k := range command.Known {
		fmt.Fprintf(&cmds, "%-10s %s\n", k.Name, theme.DimmedStyle.Render(k.Desc))
	}

	legend := lipgloss.JoinHorizontal(lipgloss.Top,
		theme.ConfidenceStyle(model.ConfidenceHigh).Render("●●● high (> 70%)"), "   ",
		theme.ConfidenceStyle(model.ConfidenceMedium).Render("●●○ medium (> 40%)"), "   ",
		theme.ConfidenceStyle(model.ConfidenceLow).Render("●○○ low"),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Keyboard Shortcuts"),
		m.help.View(m.keys),
		"",
		titleStyle.Render("Commands"),
		cmds.String(),
		titleStyle.Render("Confidence"),
		legend,
	)

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(content)
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
