package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/mailbuckets/internal/keys"
	"github.com/nhle/mailbuckets/internal/store"
	appsync "github.com/nhle/mailbuckets/internal/sync"
	"github.com/nhle/mailbuckets/internal/theme"
	"github.com/nhle/mailbuckets/internal/ui"
	"github.com/nhle/mailbuckets/internal/ui/buckets"
	"github.com/nhle/mailbuckets/internal/ui/command"
	"github.com/nhle/mailbuckets/internal/ui/detail"
	helpview "github.com/nhle/mailbuckets/internal/ui/help"
	"github.com/nhle/mailbuckets/internal/ui/inbox"
)

// bucketCountMsg carries the number of stored buckets.
type bucketCountMsg struct {
	count int
}

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewInbox ViewState = iota
	ViewDetail
	ViewBuckets
	ViewHelp
	ViewCommand
)

// Deps are the collaborators the UI drives.
type Deps struct {
	Store  store.BucketStore
	Poller *appsync.Poller

	// Account and ModelName are shown in the header.
	Account   string
	ModelName string

	Logger *zap.Logger
}

// Model is the root Bubble Tea model that manages view routing, layout,
// and the background fetch-and-categorize runs.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap
	store        store.BucketStore
	poller       *appsync.Poller
	logger       *zap.Logger

	inbox       inbox.Model
	detail      detail.Model
	helpView    helpview.Model
	commandView command.Model
	bucketView  buckets.Model
	progress    progress.Model

	account   string
	modelName string

	ready       bool
	syncing     bool
	done        int
	total       int
	bucketCount int
	notice      string
	authError   string
}

// New creates the root application model.
func New(d Deps) Model {
	k := keys.DefaultKeyMap()
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return Model{
		currentView: ViewInbox,
		keys:        k,
		store:       d.Store,
		poller:      d.Poller,
		logger:      logger,
		inbox:       inbox.New(k, 80, 24),
		detail:      detail.New(k, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		commandView: command.New(80, 24),
		bucketView:  buckets.New(d.Store, k, 80, 24),
		progress:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		account:     d.Account,
		modelName:   d.ModelName,
		syncing:     true,
	}
}

// Init counts buckets and starts the poller, which performs an initial
// fetch right away.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.countBuckets(),
		m.poller.Start(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.inbox.SetSize(w, h)
		m.detail.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		m.bucketView.SetSize(w, h)
		m.progress.Width = max(10, msg.Width-16)
		// Forward to the active view so huh forms can lay themselves out.
		return m.updateActiveView(msg)

	case bucketCountMsg:
		m.bucketCount = msg.count
		return m, nil

	case appsync.ProgressMsg:
		m.syncing = true
		m.done, m.total = msg.Done, msg.Total
		return m, m.poller.WaitForNext()

	case appsync.SyncResultMsg:
		return m.handleSyncResult(msg)

	case inbox.SelectedMsg:
		m.previousView = m.currentView
		m.currentView = ViewDetail
		m.detail.SetResult(msg.Result)
		return m, nil

	case detail.BackMsg:
		m.currentView = ViewInbox
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(msg)

	case buckets.CloseMsg:
		m.currentView = ViewInbox
		return m, nil

	case buckets.ChangedMsg:
		return m, m.countBuckets()

	case tea.KeyMsg:
		if model, cmd, handled := m.handleGlobalKey(msg); handled {
			return model, cmd
		}
	}

	return m.updateActiveView(msg)
}

func (m Model) handleSyncResult(msg appsync.SyncResultMsg) (tea.Model, tea.Cmd) {
	m.syncing = false
	m.done, m.total = 0, 0
	wait := m.poller.WaitForNext()

	switch {
	case msg.AuthError != nil:
		m.authError = msg.AuthError.Message
		return m, wait

	case msg.Error != nil:
		m.notice = fmt.Sprintf("Fetch failed: %v", msg.Error)
		return m, wait

	case msg.NoBuckets:
		m.authError = ""
		m.notice = "No buckets defined. Press b to create one, then r to categorize."
		return m, wait
	}

	m.authError = ""
	m.notice = fmt.Sprintf("Categorized %d unread emails", len(msg.Results))
	return m, tea.Batch(m.inbox.SetResults(msg.Results), wait)
}

// typing reports whether keystrokes belong to a text field.
func (m Model) typing() bool {
	switch m.currentView {
	case ViewCommand:
		return true
	case ViewInbox:
		return m.inbox.Searching()
	case ViewBuckets:
		return m.bucketView.InForm()
	}
	return false
}

// handleGlobalKey processes keys that work across views.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		m.poller.Stop()
		return m, tea.Quit, true
	}

	if m.currentView == ViewCommand && key.Matches(msg, m.keys.Back) {
		m.currentView = m.previousView
		return m, nil, true
	}

	if m.typing() {
		return m, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Quit) && m.currentView == ViewInbox:
		m.poller.Stop()
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case key.Matches(msg, m.keys.Back) && m.currentView == ViewHelp:
		m.currentView = m.previousView
		return m, nil, true

	case key.Matches(msg, m.keys.Command):
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m, m.commandView.Focus(), true

	case key.Matches(msg, m.keys.Refresh) && m.currentView == ViewInbox:
		return m, m.refresh(), true

	case key.Matches(msg, m.keys.Buckets) && m.currentView == ViewInbox:
		m.previousView = m.currentView
		m.currentView = ViewBuckets
		return m, m.bucketView.Init(), true
	}

	return m, nil, false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewInbox:
		m.inbox, cmd = m.inbox.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewBuckets:
		m.bucketView, cmd = m.bucketView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(m.headerTitle(), m.syncStatus())
	notice := m.layout.RenderNotice(m.noticeLine())
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, notice, m.renderContent(), statusBar)
}

func (m Model) headerTitle() string {
	title := "mailbuckets"
	if m.account != "" {
		title += " · " + m.account
	}
	if m.modelName != "" {
		title += " · " + m.modelName
	}
	return title
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewInbox:
		return m.inbox.View()
	case ViewDetail:
		return m.detail.View()
	case ViewBuckets:
		return m.bucketView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return ""
	}
}

// noticeLine shows categorization progress, then errors, then the last
// informational notice.
func (m Model) noticeLine() string {
	switch {
	case m.syncing && m.total > 0:
		pct := float64(m.done) / float64(m.total)
		return fmt.Sprintf("%s %d/%d", m.progress.ViewAs(pct), m.done, m.total)
	case m.syncing:
		return theme.DimmedStyle.Render("Fetching unread mail...")
	case m.authError != "":
		return theme.WarningStyle.Render(m.authError)
	case m.bucketCount == 0:
		return theme.WarningStyle.Render("No buckets defined. Press b to create one.")
	default:
		return theme.DimmedStyle.Render(m.notice)
	}
}

// syncStatus returns a short string describing the poller state.
func (m Model) syncStatus() string {
	switch m.poller.Status().State {
	case appsync.SyncFetching:
		return "fetching"
	case appsync.SyncCategorizing:
		return fmt.Sprintf("categorizing %d/%d", m.done, m.total)
	case appsync.SyncError:
		return "⚠ fetch failed"
	default:
		return fmt.Sprintf("%d buckets", m.bucketCount)
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | tab complete | esc back"
	case ViewDetail:
		return "esc back | j/k scroll"
	case ViewBuckets:
		if m.bucketView.InForm() {
			return "enter next/submit | esc cancel"
		}
		return "n new | e edit | d delete | esc back"
	default:
		if summary := m.inbox.FilterSummary(); summary != "" {
			return summary + " | : clear"
		}
		return "q quit | ? help | r fetch | b buckets | / search | tab bucket"
	}
}

// refresh starts a fetch-and-categorize run unless one is in progress.
func (m *Model) refresh() tea.Cmd {
	if m.syncing {
		return nil
	}
	m.syncing = true
	m.done, m.total = 0, 0
	m.notice = ""
	m.poller.Refresh()
	return nil
}

// countBuckets returns a command that counts stored buckets.
func (m Model) countBuckets() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		return bucketCountMsg{count: len(s.ListBuckets(context.Background()))}
	}
}

// executeCommand handles a command from the command palette.
func (m *Model) executeCommand(c command.CommandMsg) tea.Cmd {
	switch c.Name {
	case command.Refresh:
		m.currentView = ViewInbox
		return m.refresh()
	case command.Buckets:
		m.previousView = ViewInbox
		m.currentView = ViewBuckets
		return m.bucketView.Init()
	case command.Filter:
		m.currentView = ViewInbox
		return m.inbox.SetBucketFilter(c.Arg)
	case command.Clear:
		m.currentView = ViewInbox
		return m.inbox.ClearFilters()
	case command.Help:
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return nil
	case command.Quit:
		m.poller.Stop()
		return tea.Quit
	default:
		m.notice = fmt.Sprintf("Unknown command %q", c.Name)
		m.logger.Debug("unknown palette command", zap.String("command", c.Name))
		return nil
	}
}
