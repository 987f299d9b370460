package buckets

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailbuckets/internal/keys"
	"github.com/nhle/mailbuckets/internal/model"
	"github.com/nhle/mailbuckets/internal/store"
	"github.com/nhle/mailbuckets/internal/theme"
)

// CloseMsg signals the parent to close the bucket manager.
type CloseMsg struct{}

// ChangedMsg signals that buckets were created, edited or deleted.
type ChangedMsg struct{}

type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirmDelete
)

type formBindings struct {
	title   string
	prompt  string
	confirm bool
}

type loadedMsg struct {
	buckets []model.Bucket
}

type savedMsg struct{ err error }

type deletedMsg struct {
	removed bool
	err     error
}

// Model is the Bubble Tea model for bucket management.
type Model struct {
	mode        mode
	store       store.BucketStore
	keys        *keys.KeyMap
	buckets     []model.Bucket
	selectedIdx int
	editingID   string
	form        *huh.Form
	confirmForm *huh.Form
	fb          *formBindings
	statusMsg   string
	width       int
	height      int
}

// New creates a new bucket manager model.
func New(s store.BucketStore, k *keys.KeyMap, width, height int) Model {
	return Model{
		mode:   modeList,
		store:  s,
		keys:   k,
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Init loads buckets from the store.
func (m Model) Init() tea.Cmd {
	return m.load()
}

// Buckets returns the buckets currently listed.
func (m Model) Buckets() []model.Bucket {
	return m.buckets
}

// InForm reports whether a form has keyboard focus.
func (m Model) InForm() bool {
	return m.mode != modeList
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.buckets = msg.buckets
		if m.selectedIdx >= len(m.buckets) {
			m.selectedIdx = max(0, len(m.buckets)-1)
		}
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMsg = "Bucket saved"
		}
		m.mode = modeList
		return m, tea.Batch(m.load(), changed)

	case deletedMsg:
		switch {
		case msg.err != nil:
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		case !msg.removed:
			m.statusMsg = "Bucket was already gone"
		default:
			m.statusMsg = "Bucket deleted"
		}
		m.mode = modeList
		return m, tea.Batch(m.load(), changed)

	case tea.KeyMsg:
		if m.mode == modeList {
			return m.handleListKey(msg)
		}
	}

	return m.updateActiveForm(msg)
}

func changed() tea.Msg { return ChangedMsg{} }

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.buckets) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.buckets)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.buckets) > 0 {
			m.selectedIdx = (m.selectedIdx - 1 + len(m.buckets)) % len(m.buckets)
		}
		return m, nil

	case key.Matches(msg, m.keys.New):
		m.editingID = ""
		m.fb.title = ""
		m.fb.prompt = ""
		m.form = m.buildForm("New bucket")
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Edit):
		if len(m.buckets) == 0 {
			return m, nil
		}
		b := m.buckets[m.selectedIdx]
		m.editingID = b.ID
		m.fb.title = b.Title
		m.fb.prompt = b.Prompt
		m.form = m.buildForm("Edit bucket")
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Delete):
		if len(m.buckets) == 0 {
			return m, nil
		}
		m.fb.confirm = false
		m.confirmForm = m.buildConfirmForm()
		m.mode = modeConfirmDelete
		return m, m.confirmForm.Init()
	}
	return m, nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func (m Model) buildForm(title string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("e.g. Resignations").
				Value(&m.fb.title).
				Validate(required("title")),
			huh.NewText().
				Title("Description").
				Description("Tell the model which emails belong here.").
				Placeholder("Emails about employees leaving, notice periods, exit interviews").
				Lines(4).
				Value(&m.fb.prompt).
				Validate(required("description")),
		).Title(title),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) buildConfirmForm() *huh.Form {
	title := ""
	if m.selectedIdx < len(m.buckets) {
		title = m.buckets[m.selectedIdx].Title
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete bucket %q?", title)).
				Description("Emails will no longer be sorted into it.").
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		return m, m.save()
	case huh.StateAborted:
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmForm == nil {
		return m, nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}
	switch m.confirmForm.State {
	case huh.StateCompleted:
		if m.fb.confirm && m.selectedIdx < len(m.buckets) {
			return m, m.delete(m.buckets[m.selectedIdx].ID)
		}
		m.mode = modeList
		return m, nil
	case huh.StateAborted:
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateActiveForm(msg tea.Msg) (Model, tea.Cmd) {
	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

// View renders the bucket manager.
func (m Model) View() string {
	switch m.mode {
	case modeForm:
		return m.viewForm(m.form)
	case modeConfirmDelete:
		return m.viewForm(m.confirmForm)
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	b.WriteString(titleStyle.Render(fmt.Sprintf("Buckets (%d)", len(m.buckets))))
	b.WriteString("\n\n")

	if len(m.buckets) == 0 {
		b.WriteString(theme.HelpStyle.Render("No buckets yet. Press 'n' to create one."))
	} else {
		promptWidth := max(20, m.width-8)
		for i, bk := range m.buckets {
			label := theme.BucketStyle(model.RefTo(bk)).Render(bk.Title)
			if i == m.selectedIdx {
				b.WriteString(theme.SelectedItemStyle.Render(label))
			} else {
				b.WriteString(theme.ListItemStyle.Render(label))
			}
			b.WriteString("\n")
			b.WriteString(theme.ListItemStyle.Render(
				theme.DimmedStyle.Width(promptWidth).Render(bk.Prompt),
			))
			b.WriteString("\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.WarningStyle.Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(theme.DimmedStyle.Render("n new | e edit | d delete | esc back"))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Render(b.String())
}

func (m Model) viewForm(f *huh.Form) string {
	if f == nil {
		return ""
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(f.View())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	return min(100, max(40, m.width-4))
}

func (m Model) formHeight() int {
	return max(12, m.height-4)
}

func (m Model) load() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		return loadedMsg{buckets: s.ListBuckets(context.Background())}
	}
}

func (m Model) save() tea.Cmd {
	s := m.store
	title := strings.TrimSpace(m.fb.title)
	prompt := strings.TrimSpace(m.fb.prompt)
	editID := m.editingID
	return func() tea.Msg {
		ctx := context.Background()
		if editID == "" {
			_, err := s.CreateBucket(ctx, title, prompt)
			return savedMsg{err: err}
		}
		ok, err := s.UpdateBucket(ctx, editID, &title, &prompt)
		if err == nil && !ok {
			err = fmt.Errorf("bucket %s no longer exists", editID)
		}
		return savedMsg{err: err}
	}
}

func (m Model) delete(id string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		removed, err := s.DeleteBucket(context.Background(), id)
		return deletedMsg{removed: removed, err: err}
	}
}
