package rejectform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/applicant-board/internal/theme"
)

// RejectSubmittedMsg is dispatched when the user confirms a rejection.
type RejectSubmittedMsg struct {
	ApplicantID string
	Reason      string
}

// RejectCancelMsg is dispatched when the user cancels the form.
type RejectCancelMsg struct{}

// presetReasons are common rejection reasons offered alongside free text.
var presetReasons = []string{
	"Not enough relevant experience",
	"Skills mismatch for the role",
	"Position filled",
	"Withdrew from the process",
	"Salary expectations out of range",
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	preset  string
	custom  string
	confirm bool
}

// Model is the Bubble Tea model for the reject-with-reason form.
type Model struct {
	form        *huh.Form
	fb          *formBindings
	applicantID string
	applicant   string
	width       int
	height      int
}

// New creates a new reject form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start initializes the form for rejecting the given applicant.
func (m *Model) Start(applicantID, applicantName string) tea.Cmd {
	m.applicantID = applicantID
	m.applicant = applicantName
	m.fb.preset = presetReasons[0]
	m.fb.custom = ""
	m.fb.confirm = false
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the reject form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		if !m.fb.confirm {
			return m, func() tea.Msg { return RejectCancelMsg{} }
		}
		id := m.applicantID
		reason := m.reason()
		return m, func() tea.Msg {
			return RejectSubmittedMsg{ApplicantID: id, Reason: reason}
		}
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return RejectCancelMsg{} }
	}

	return m, cmd
}

// reason returns the custom reason when given, otherwise the preset.
func (m Model) reason() string {
	if custom := strings.TrimSpace(m.fb.custom); custom != "" {
		return custom
	}
	return m.fb.preset
}

// View renders the reject form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorRed).
		MarginBottom(1)

	title := titleStyle.Render("Reject — " + m.applicant)
	content := title + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	opts := make([]huh.Option[string], len(presetReasons))
	for i, r := range presetReasons {
		opts[i] = huh.NewOption(r, r)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Reason").
				Options(opts...).
				Value(&m.fb.preset),
			huh.NewText().
				Title("Custom reason").
				Description("Overrides the preset when filled in").
				Placeholder("Optional").
				Value(&m.fb.custom),
			huh.NewConfirm().
				Title(fmt.Sprintf("Reject %s?", m.applicant)).
				Description("The applicant moves to Rejected and leaves the board.").
				Affirmative("Reject").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth())
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}
