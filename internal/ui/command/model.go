package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailbuckets/internal/theme"
)

// Command names understood by the application.
const (
	Refresh = "refresh"
	Buckets = "buckets"
	Filter  = "filter"
	Clear   = "clear"
	Help    = "help"
	Quit    = "quit"
)

// Known lists the commands offered as completions, with a short
// description each.
var Known = []struct {
	Name string
	Desc string
}{
	{Refresh, "fetch and categorize unread mail"},
	{Buckets, "open the bucket manager"},
	{Filter, "show one bucket: filter <title>"},
	{Clear, "clear search and bucket filter"},
	{Help, "show keyboard shortcuts"},
	{Quit, "exit"},
}

// aliases maps alternate spellings to command names.
var aliases = map[string]string{
	"sync":  Refresh,
	"fetch": Refresh,
	"q":     Quit,
	"b":     Buckets,
}

// CommandMsg is emitted when the user executes a command.
type CommandMsg struct {
	Name string
	Arg  string
}

// Parse splits input into a command name and its argument.
func Parse(input string) CommandMsg {
	input = strings.TrimSpace(input)
	name, arg, _ := strings.Cut(input, " ")
	name = strings.ToLower(name)
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}
	return CommandMsg{Name: name, Arg: strings.TrimSpace(arg)}
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "type a command..."
	ti.Prompt = ": "
	ti.Width = width - 6
	ti.ShowSuggestions = true

	suggestions := make([]string, 0, len(Known))
	for _, k := range Known {
		suggestions = append(suggestions, k.Name)
	}
	ti.SetSuggestions(suggestions)

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
		value := strings.TrimSpace(m.input.Value())
		m.input.Reset()
		if value == "" {
			return m, nil
		}
		parsed := Parse(value)
		return m, func() tea.Msg { return parsed }
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette with the matching commands below it.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	prefix := strings.ToLower(strings.TrimSpace(m.input.Value()))
	var rows []string
	for _, k := range Known {
		if prefix != "" && !strings.HasPrefix(k.Name, prefix) {
			continue
		}
		rows = append(rows, theme.DimmedStyle.Render(k.Name+"  "+k.Desc))
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("Command Palette"),
		m.input.View(),
		"",
		strings.Join(rows, "\n"),
	)

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
