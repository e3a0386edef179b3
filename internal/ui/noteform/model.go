package noteform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/applicant-board/internal/theme"
)

// NoteSubmittedMsg is dispatched when the user submits a note.
type NoteSubmittedMsg struct {
	ApplicantID string
	Content     string
}

// NoteCancelMsg is dispatched when the user cancels the form.
type NoteCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	content string
}

// Model is the Bubble Tea model for the add-note form.
type Model struct {
	form        *huh.Form
	fb          *formBindings
	applicantID string
	applicant   string
	width       int
	height      int
}

// New creates a new note form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start initializes the form for adding a note to the given applicant.
func (m *Model) Start(applicantID, applicantName string) tea.Cmd {
	m.applicantID = applicantID
	m.applicant = applicantName
	m.fb.content = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the note form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		id := m.applicantID
		content := strings.TrimSpace(m.fb.content)
		return m, func() tea.Msg {
			return NoteSubmittedMsg{ApplicantID: id, Content: content}
		}
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return NoteCancelMsg{} }
	}

	return m, cmd
}

// View renders the note form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := titleStyle.Render("Add Note — " + m.applicant)
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
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Note").
				Placeholder("Interview impressions, follow-ups...").
				Value(&m.fb.content).
				Validate(validateRequired("Note")),
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

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}
