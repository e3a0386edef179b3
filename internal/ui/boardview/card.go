package boardview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/applicant-board/internal/model"
	"github.com/nhle/applicant-board/internal/theme"
)

// cardLines is the number of terminal rows one applicant card occupies,
// including the blank separator row.
const cardLines = 3

// renderCard draws a single applicant card for a column.
func renderCard(a model.Applicant, width int, focused, selected bool) string {
	marker := " "
	if selected {
		marker = "*"
	}
	if a.IsBookmarked {
		marker = "★"
	}
	if selected && a.IsBookmarked {
		marker = "★*"
	}

	name := truncate(a.Name, width-lipgloss.Width(marker)-2)
	title := fmt.Sprintf("%s %s", marker, name)

	srcBadge := theme.SourceLabelStyle(a.Source).Render(string(a.Source))
	meta := fmt.Sprintf(
		"%s %s  %s",
		ratingStars(a.Rating),
		srcBadge,
		theme.DimmedStyle.Render(relativeTime(a.LastActivityAt)),
	)

	card := lipgloss.JoinVertical(lipgloss.Left, title, meta)

	switch {
	case focused:
		return theme.FocusedCardStyle.Width(width).Render(card)
	case selected:
		return theme.SelectedCardStyle.Width(width).Render(card)
	default:
		return theme.CardStyle.Width(width).Render(card)
	}
}

// ratingStars renders a 0-5 rating as filled and hollow stars.
func ratingStars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	stars := strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
	return theme.RatingStyle(rating).Render(stars)
}

// truncate shortens s to fit within width, appending an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 1 {
		return string(runes[:1])
	}
	if len(runes) > width-1 {
		runes = runes[:width-1]
	}
	return string(runes) + "…"
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
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case d < 24*time.Hour:
		hrs := int(d.Hours())
		if hrs == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hrs)
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	default:
		weeks := int(d.Hours() / 24 / 7)
		if weeks == 1 {
			return "1w ago"
		}
		return fmt.Sprintf("%dw ago", weeks)
	}
}
