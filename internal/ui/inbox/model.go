package inbox

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailbuckets/internal/keys"
	"github.com/nhle/mailbuckets/internal/model"
	"github.com/nhle/mailbuckets/internal/theme"
)

// SelectedMsg is sent when the user opens an email.
type SelectedMsg struct {
	Result model.Categorization
}

// Model is the inbox view: categorized unread mail, newest first.
type Model struct {
	list         list.Model
	keys         *keys.KeyMap
	results      []model.Categorization
	query        string
	bucketFilter string
	searchMode   bool
	searchInput  textinput.Model
	fetched      bool
	width        int
	height       int
}

// New creates a new inbox model.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Inbox"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search subject, sender, summary..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		keys:        k,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// SetResults replaces the inbox contents.
func (m *Model) SetResults(results []model.Categorization) tea.Cmd {
	m.results = results
	m.fetched = true
	if m.bucketFilter != "" && !m.hasBucket(m.bucketFilter) {
		m.bucketFilter = ""
	}
	return m.apply()
}

// Results returns the unfiltered inbox contents.
func (m Model) Results() []model.Categorization {
	return m.results
}

// SetBucketFilter shows only emails in the bucket with the given title
// (case-insensitive). An empty title shows all.
func (m *Model) SetBucketFilter(title string) tea.Cmd {
	m.bucketFilter = ""
	for _, r := range m.results {
		if strings.EqualFold(r.BucketTitle(), title) {
			m.bucketFilter = r.BucketTitle()
			break
		}
	}
	return m.apply()
}

// ClearFilters removes the search query and bucket filter.
func (m *Model) ClearFilters() tea.Cmd {
	m.query = ""
	m.bucketFilter = ""
	m.searchInput.Reset()
	return m.apply()
}

// FilterSummary describes the active filters, or "" when none.
func (m Model) FilterSummary() string {
	var parts []string
	if m.bucketFilter != "" {
		parts = append(parts, "bucket: "+m.bucketFilter)
	}
	if m.query != "" {
		parts = append(parts, "search: "+m.query)
	}
	return strings.Join(parts, " | ")
}

// Searching reports whether the search input has focus.
func (m Model) Searching() bool {
	return m.searchMode
}

// Update handles messages for the inbox view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.query = strings.TrimSpace(m.searchInput.Value())
		return m, m.apply()

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.query = ""
		return m, m.apply()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(ResultItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedMsg{Result: item.Result}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.CycleBucket):
		m.bucketFilter = m.nextBucket()
		return m, m.apply()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// nextBucket returns the bucket title after the current filter, in order
// of first appearance, wrapping back to "" (all).
func (m Model) nextBucket() string {
	titles := m.bucketTitles()
	if len(titles) == 0 {
		return ""
	}
	if m.bucketFilter == "" {
		return titles[0]
	}
	for i, t := range titles {
		if t == m.bucketFilter && i+1 < len(titles) {
			return titles[i+1]
		}
	}
	return ""
}

func (m Model) bucketTitles() []string {
	seen := make(map[string]bool)
	var titles []string
	for _, r := range m.results {
		t := r.BucketTitle()
		if !seen[t] {
			seen[t] = true
			titles = append(titles, t)
		}
	}
	return titles
}

func (m Model) hasBucket(title string) bool {
	for _, r := range m.results {
		if r.BucketTitle() == title {
			return true
		}
	}
	return false
}

// apply rebuilds the visible items from the results and filters.
func (m *Model) apply() tea.Cmd {
	q := strings.ToLower(m.query)
	items := make([]list.Item, 0, len(m.results))
	for _, r := range m.results {
		if m.bucketFilter != "" && r.BucketTitle() != m.bucketFilter {
			continue
		}
		item := ResultItem{Result: r}
		if q != "" && !strings.Contains(strings.ToLower(item.FilterValue()), q) {
			continue
		}
		items = append(items, item)
	}
	return m.list.SetItems(items)
}

// VisibleCount returns the number of rows currently shown.
func (m Model) VisibleCount() int {
	return len(m.list.Items())
}

// View renders the inbox.
func (m Model) View() string {
	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, m.list.View())
	}

	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}

	return m.list.View()
}

func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	switch {
	case m.query != "" || m.bucketFilter != "":
		return style.Render("No matching emails.\nPress : then type 'clear' to reset filters.")
	case m.fetched:
		return style.Render("No unread email.\n\nPress r to check again.")
	default:
		return style.Render("Press r to fetch and categorize unread email.\nPress b to manage buckets.")
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
