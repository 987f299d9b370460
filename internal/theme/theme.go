// Package theme defines the colors and lipgloss styles used across views.
package theme

import (
	"hash/fnv"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailbuckets/internal/model"
)

// Adaptive colors, dark terminal value first.
var (
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#8B949E", Light: "#6E7781"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F0F6FC", Light: "#1F2328"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#30363D", Light: "#D0D7DE"}

	colorAccent = lipgloss.AdaptiveColor{Dark: "#58A6FF", Light: "#0969DA"}
	colorGood   = lipgloss.AdaptiveColor{Dark: "#3FB950", Light: "#1A7F37"}
	colorFair   = lipgloss.AdaptiveColor{Dark: "#D29922", Light: "#9A6700"}
	colorPoor   = lipgloss.AdaptiveColor{Dark: "#F85149", Light: "#CF222E"}
	colorPurple = lipgloss.AdaptiveColor{Dark: "#BC8CFF", Light: "#8250DF"}
	colorTeal   = lipgloss.AdaptiveColor{Dark: "#39C5CF", Light: "#1B7C83"}
	colorPink   = lipgloss.AdaptiveColor{Dark: "#FF7EB6", Light: "#BF3989"}
)

// bucketPalette colors real buckets. Uncategorized is always gray.
var bucketPalette = []lipgloss.AdaptiveColor{
	colorAccent, colorGood, colorPurple, colorTeal, colorPink, colorFair,
}

var (
	// HeaderStyle renders the title bar.
	HeaderStyle = lipgloss.NewStyle().Bold(true).
			Foreground(ColorWhite).Background(colorAccent).Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).Background(ColorSubtle).Padding(0, 1)

	// DetailPanelStyle frames a single email.
	DetailPanelStyle = lipgloss.NewStyle().Padding(1, 2).
				Border(lipgloss.RoundedBorder()).BorderForeground(ColorSubtle)

	ListItemStyle = lipgloss.NewStyle().PaddingLeft(2)

	// SelectedItemStyle marks the focused row with a left rule.
	SelectedItemStyle = lipgloss.NewStyle().PaddingLeft(1).Bold(true).
				Foreground(colorAccent).
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(colorAccent)

	HelpStyle    = lipgloss.NewStyle().Foreground(ColorGray).Italic(true)
	DimmedStyle  = lipgloss.NewStyle().Foreground(ColorGray)
	WarningStyle = lipgloss.NewStyle().Foreground(colorFair).Italic(true)
)

// ConfidenceStyle colors a confidence level green, amber or red.
func ConfidenceStyle(level model.ConfidenceLevel) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch level {
	case model.ConfidenceHigh:
		return base.Foreground(colorGood)
	case model.ConfidenceMedium:
		return base.Foreground(colorFair)
	default:
		return base.Foreground(colorPoor)
	}
}

// BucketStyle returns a badge style for a bucket. The color is stable for
// a given bucket id.
func BucketStyle(ref model.BucketRef) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	if ref.IsUncategorized() {
		return base.Foreground(ColorGray)
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(ref.ID()))
	return base.Foreground(bucketPalette[h.Sum32()%uint32(len(bucketPalette))])
}
