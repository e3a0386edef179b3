package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/applicant-board/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// DetailPanelStyle wraps the detail view content area.
var DetailPanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ColumnStyle frames a single kanban column.
var ColumnStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder).
	Padding(0, 1)

// FocusedColumnStyle highlights the column holding the cursor.
var FocusedColumnStyle = ColumnStyle.
	BorderForeground(ColorBlue)

// CardStyle is the base style for applicant cards in a column.
var CardStyle = lipgloss.NewStyle().
	PaddingLeft(1)

// FocusedCardStyle highlights the applicant card under the cursor.
var FocusedCardStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// SelectedCardStyle marks applicants in the bulk selection set.
var SelectedCardStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Foreground(ColorYellow)

// DimmedStyle de-emphasizes secondary text.
var DimmedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// stageColors maps the catalog color tokens to adaptive colors.
var stageColors = map[string]lipgloss.AdaptiveColor{
	"blue":    ColorBlue,
	"yellow":  ColorYellow,
	"magenta": ColorMagenta,
	"orange":  ColorOrange,
	"green":   ColorGreen,
	"red":     ColorRed,
}

// StageStyle returns a color-coded style for a catalog stage.
func StageStyle(stage model.Stage) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	if c, ok := stageColors[stage.Color]; ok {
		return base.Foreground(c)
	}
	return base.Foreground(ColorGray)
}

// SourceLabelStyle returns a color-coded style for an application source.
func SourceLabelStyle(src model.Source) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch src {
	case model.SourceReferral:
		return base.Foreground(ColorGreen)
	case model.SourceLinkedIn, model.SourceIndeed, model.SourceSeek:
		return base.Foreground(ColorBlue)
	case model.SourceAgency:
		return base.Foreground(ColorMagenta)
	case model.SourceDirect:
		return base.Foreground(ColorYellow)
	default:
		return base.Foreground(ColorGray)
	}
}

// RatingStyle returns a style for the star rating display.
func RatingStyle(rating int) lipgloss.Style {
	base := lipgloss.NewStyle()
	switch {
	case rating >= 4:
		return base.Foreground(ColorGreen)
	case rating >= 2:
		return base.Foreground(ColorYellow)
	case rating == 1:
		return base.Foreground(ColorRed)
	default:
		return base.Foreground(ColorGray)
	}
}

// ScoreStyle returns a style for a 0-100 assessment score.
func ScoreStyle(score int) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch {
	case score >= 80:
		return base.Foreground(ColorGreen)
	case score >= 50:
		return base.Foreground(ColorYellow)
	default:
		return base.Foreground(ColorRed)
	}
}
