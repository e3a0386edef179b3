package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/applicant-board/internal/keys"
	"github.com/nhle/applicant-board/internal/model"
	"github.com/nhle/applicant-board/internal/theme"
)

// BackMsg signals the parent to navigate back to the board view.
type BackMsg struct{}

// ActionMsg signals the parent to execute an annotation action on the
// current applicant.
type ActionMsg struct {
	Action      string
	ApplicantID string
	Rating      int
}

// Model is the applicant detail view component.
type Model struct {
	applicant *model.Applicant
	viewport  viewport.Model
	keys      *keys.KeyMap
	width     int
	height    int
	loading   bool
}

// New creates a new detail view model.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg {
				return BackMsg{}
			}

		case key.Matches(msg, m.keys.Note):
			if m.applicant != nil {
				id := m.applicant.ID
				return m, func() tea.Msg {
					return ActionMsg{Action: "note", ApplicantID: id}
				}
			}

		case key.Matches(msg, m.keys.Bookmark):
			if m.applicant != nil {
				id := m.applicant.ID
				return m, func() tea.Msg {
					return ActionMsg{Action: "bookmark", ApplicantID: id}
				}
			}

		case key.Matches(msg, m.keys.Reject):
			if m.applicant != nil {
				id := m.applicant.ID
				return m, func() tea.Msg {
					return ActionMsg{Action: "reject", ApplicantID: id}
				}
			}

		case key.Matches(msg, m.keys.MoveTo):
			if m.applicant != nil {
				id := m.applicant.ID
				return m, func() tea.Msg {
					return ActionMsg{Action: "move", ApplicantID: id}
				}
			}

		case key.Matches(msg, m.keys.Rate):
			if m.applicant != nil {
				rating := int(msg.String()[0] - '0')
				id := m.applicant.ID
				return m, func() tea.Msg {
					return ActionMsg{
						Action:      "rate",
						ApplicantID: id,
						Rating:      rating,
					}
				}
			}
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.loading {
		loadingStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return loadingStyle.Render("Loading applicant...")
	}

	if m.applicant == nil {
		emptyStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return emptyStyle.Render("No applicant selected")
	}

	return m.viewport.View()
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.applicant == nil {
		return ""
	}

	a := m.applicant
	var sections []string

	// Name line with bookmark marker
	name := a.Name
	if a.IsBookmarked {
		name = "★ " + name
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(name))

	if a.Headline != "" {
		sections = append(sections, theme.DimmedStyle.Render(a.Headline))
	}

	// Badges line: stage + source + rating
	stageBadge := ""
	if stage, ok := model.StageByID(a.Stage); ok {
		stageBadge = theme.StageStyle(stage).Render(stage.Name)
	} else {
		stageBadge = lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorRed).
			Render(model.StageName(a.Stage))
	}

	srcBadge := theme.SourceLabelStyle(a.Source).
		Render(strings.ToUpper(string(a.Source)))

	rating := a.Rating
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	ratingBadge := theme.RatingStyle(rating).Render(
		strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating),
	)

	badgeLine := lipgloss.JoinHorizontal(
		lipgloss.Top, stageBadge, "  ", srcBadge, "  ", ratingBadge,
	)
	sections = append(sections, badgeLine)
	sections = append(sections, "")

	// Metadata table
	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	meta := func(label, value string) {
		if value == "" {
			return
		}
		sections = append(sections, fmt.Sprintf(
			"%s %s",
			metaStyle.Render(fmt.Sprintf("%-10s", label+":")),
			valStyle.Render(value),
		))
	}

	meta("Job", jobLabel(a.Job))
	meta("Email", a.Email)
	meta("Phone", a.Phone)
	meta("Location", a.Location)
	if !a.AppliedAt.IsZero() {
		meta("Applied", a.AppliedAt.Format("2006-01-02 15:04"))
	}
	if !a.LastActivityAt.IsZero() {
		meta("Activity", a.LastActivityAt.Format("2006-01-02 15:04"))
	}
	meta("Resume", a.ResumeURL)
	if a.IsIndigenous {
		meta("Identity", "First Nations applicant")
	}

	if len(a.Tags) > 0 {
		tagStyle := lipgloss.NewStyle().Foreground(theme.ColorMagenta)
		meta("Tags", tagStyle.Render(strings.Join(a.Tags, ", ")))
	}

	// Separator
	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", min(m.width-4, 80)))

	// Assessment scores
	sections = append(sections, "")
	sections = append(sections, separator)
	sections = append(sections, "")

	scoreHeaderStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite)
	sections = append(sections, scoreHeaderStyle.Render("Assessment"))
	sections = append(sections, "")
	sections = append(sections, m.renderScore("Skills", a.Scores.Skills))
	sections = append(sections, m.renderScore("Experience", a.Scores.Experience))
	sections = append(sections, m.renderScore("Cultural", a.Scores.Cultural))
	sections = append(sections, m.renderScore("Overall", a.Scores.Overall))

	// Notes section
	if len(a.Notes) > 0 {
		sections = append(sections, "")
		sections = append(sections, separator)
		sections = append(sections, "")

		noteHeaderStyle := lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorWhite)

		sections = append(sections, noteHeaderStyle.Render(
			fmt.Sprintf("Notes (%d)", len(a.Notes)),
		))
		sections = append(sections, "")

		authorStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBlue)
		timeStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)

		for _, n := range a.Notes {
			header := fmt.Sprintf(
				"%s  %s",
				authorStyle.Render(n.Author),
				timeStyle.Render(n.CreatedAt.Format("2006-01-02 15:04")),
			)
			sections = append(sections, header)
			sections = append(sections, n.Content)
			sections = append(sections, "")
		}
	}

	// Activity timeline
	if len(a.Activities) > 0 {
		sections = append(sections, "")
		sections = append(sections, separator)
		sections = append(sections, "")

		actHeaderStyle := lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorWhite)

		sections = append(sections, actHeaderStyle.Render(
			fmt.Sprintf("Activity (%d)", len(a.Activities)),
		))
		sections = append(sections, "")

		timeStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
		for _, act := range a.Activities {
			line := fmt.Sprintf(
				"%s  %s",
				timeStyle.Render(act.Date.Format("2006-01-02")),
				act.Description,
			)
			if act.Actor != "" {
				line += theme.DimmedStyle.Render(" — " + act.Actor)
			}
			sections = append(sections, line)
		}
	}

	// Key hints footer
	sections = append(sections, "")
	sections = append(sections, theme.HelpStyle.Render(
		"n note | b bookmark | 1-5 rate | m move | x reject | esc back",
	))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderScore draws one labeled assessment score with a small bar.
func (m Model) renderScore(label string, score int) string {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	filled := score / 10
	bar := strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)

	labelStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	return fmt.Sprintf(
		"%s %s %s",
		labelStyle.Render(fmt.Sprintf("%-11s", label)),
		theme.ScoreStyle(score).Render(bar),
		theme.ScoreStyle(score).Render(fmt.Sprintf("%3d", score)),
	)
}

// SetApplicant updates the applicant being displayed and re-renders.
func (m *Model) SetApplicant(a *model.Applicant) {
	m.applicant = a
	m.loading = false
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// RefreshApplicant updates the displayed record in place, preserving the
// scroll position. Used when a background reload changes the applicant.
func (m *Model) RefreshApplicant(a *model.Applicant) {
	offset := m.viewport.YOffset
	m.applicant = a
	m.viewport.SetContent(m.renderContent())
	m.viewport.SetYOffset(offset)
}

// ApplicantID returns the ID of the displayed applicant, or "".
func (m Model) ApplicantID() string {
	if m.applicant == nil {
		return ""
	}
	return m.applicant.ID
}

// SetLoading sets the loading state.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	if m.applicant != nil {
		m.viewport.SetContent(m.renderContent())
	}
}

// jobLabel formats a job reference for display.
func jobLabel(j model.JobRef) string {
	if j.Department != "" {
		return fmt.Sprintf("%s (%s)", j.Title, j.Department)
	}
	return j.Title
}
