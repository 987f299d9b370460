package inbox

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailbuckets/internal/model"
	"github.com/nhle/mailbuckets/internal/theme"
)

// ResultItem wraps a categorization so it can be used in a bubbles/list.
type ResultItem struct {
	Result model.Categorization
}

// FilterValue returns the string used for filtering.
func (i ResultItem) FilterValue() string {
	return i.Result.Email.Subject + " " + i.Result.Email.Sender + " " + i.Result.SummaryText()
}

// Title returns the email subject.
func (i ResultItem) Title() string { return i.Result.Email.Subject }

// Description returns a short summary line.
func (i ResultItem) Description() string {
	return strings.Join([]string{
		i.Result.BucketTitle(),
		i.Result.Email.Sender,
		relativeTime(i.Result.Email.Date),
	}, " | ")
}

// ItemDelegate implements list.ItemDelegate for inbox rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single row: confidence, bucket badge, subject, sender
// and age.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ri, ok := item.(ResultItem)
	if !ok {
		return
	}

	r := ri.Result
	conf := theme.ConfidenceStyle(r.Level()).Render(ConfidenceDots(r.Level()))
	badge := theme.BucketStyle(r.Bucket).Render(truncate(r.BucketTitle(), 16))
	sender := theme.DimmedStyle.Render(truncate(r.Email.Sender, 28))
	age := lipgloss.NewStyle().Foreground(theme.ColorGray).Render(relativeTime(r.Email.Date))

	line := fmt.Sprintf("%s %s %s  %s  %s", conf, badge, r.Email.Subject, sender, age)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// ConfidenceDots renders a three-dot confidence indicator.
func ConfidenceDots(level model.ConfidenceLevel) string {
	switch level {
	case model.ConfidenceHigh:
		return "●●●"
	case model.ConfidenceMedium:
		return "●●○"
	default:
		return "●○○"
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 02")
	}
}
