package stagepicker

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/applicant-board/internal/model"
	"github.com/nhle/applicant-board/internal/theme"
)

// StagePickedMsg is dispatched when the user picks a target stage for a
// single applicant.
type StagePickedMsg struct {
	ApplicantID string
	Target      model.StageID
}

// BulkStagePickedMsg is dispatched when the user picks a target stage for
// the whole selection set.
type BulkStagePickedMsg struct {
	Target model.StageID
}

// StagePickerCancelMsg is dispatched when the user cancels the picker.
type StagePickerCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	target string
}

// Model is the Bubble Tea model for the stage picker.
type Model struct {
	form        *huh.Form
	fb          *formBindings
	applicantID string
	title       string
	bulk        bool
	width       int
	height      int
}

// New creates a new stage picker model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start initializes the picker for moving one applicant. The current stage
// is preselected.
func (m *Model) Start(applicantID, applicantName string, current model.StageID) tea.Cmd {
	m.bulk = false
	m.applicantID = applicantID
	m.title = "Move — " + applicantName
	m.fb.target = string(current)
	m.form = m.buildForm()
	return m.form.Init()
}

// StartBulk initializes the picker for moving the selection set.
func (m *Model) StartBulk(count int) tea.Cmd {
	m.bulk = true
	m.applicantID = ""
	m.title = fmt.Sprintf("Move %d selected applicant(s)", count)
	m.fb.target = string(model.StageApplied)
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the stage picker.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		target := model.StageID(m.fb.target)
		if m.bulk {
			return m, func() tea.Msg {
				return BulkStagePickedMsg{Target: target}
			}
		}
		id := m.applicantID
		return m, func() tea.Msg {
			return StagePickedMsg{ApplicantID: id, Target: target}
		}
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return StagePickerCancelMsg{} }
	}

	return m, cmd
}

// View renders the stage picker.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(m.title) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the picker dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	catalog := model.StageCatalog()
	opts := make([]huh.Option[string], 0, len(catalog))
	for _, s := range catalog {
		opts = append(opts, huh.NewOption(s.Name, string(s.ID)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Target stage").
				Options(opts...).
				Value(&m.fb.target),
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
