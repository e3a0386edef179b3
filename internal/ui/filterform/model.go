package filterform

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/applicant-board/internal/board"
	"github.com/nhle/applicant-board/internal/model"
	"github.com/nhle/applicant-board/internal/theme"
)

// FilterAppliedMsg is dispatched when the user applies a filter.
type FilterAppliedMsg struct {
	Filter board.FilterSpec
}

// FilterCancelMsg is dispatched when the user cancels the form.
type FilterCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	jobID  string
	stage  string
	source string
	query  string
}

// Model is the Bubble Tea model for the board filter form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	jobs   []model.Job
	width  int
	height int
}

// New creates a new filter form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// SetJobs sets the job openings offered by the job selector.
func (m *Model) SetJobs(jobs []model.Job) {
	m.jobs = jobs
}

// Start initializes the form, pre-filled from the active filter.
func (m *Model) Start(current board.FilterSpec) tea.Cmd {
	m.fb.jobID = current.JobID
	m.fb.stage = string(current.Stage)
	m.fb.source = string(current.Source)
	m.fb.query = current.Query
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the filter form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		filter := board.FilterSpec{
			JobID:  m.fb.jobID,
			Stage:  model.StageID(m.fb.stage),
			Source: model.Source(m.fb.source),
			Query:  strings.TrimSpace(m.fb.query),
		}
		return m, func() tea.Msg {
			return FilterAppliedMsg{Filter: filter}
		}
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return FilterCancelMsg{} }
	}

	return m, cmd
}

// View renders the filter form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("Filter Board") + "\n" + m.form.View()

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
	jobOpts := []huh.Option[string]{
		huh.NewOption("All jobs", ""),
	}
	for _, j := range m.jobs {
		jobOpts = append(jobOpts, huh.NewOption(jobOptionLabel(j), j.ID))
	}

	stageOpts := []huh.Option[string]{
		huh.NewOption("All stages", ""),
	}
	for _, s := range model.StageCatalog() {
		stageOpts = append(stageOpts, huh.NewOption(s.Name, string(s.ID)))
	}

	sourceOpts := []huh.Option[string]{
		huh.NewOption("All sources", ""),
	}
	for _, src := range model.Sources {
		sourceOpts = append(sourceOpts, huh.NewOption(string(src), string(src)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Job").
				Options(jobOpts...).
				Value(&m.fb.jobID),
			huh.NewSelect[string]().
				Title("Stage").
				Options(stageOpts...).
				Value(&m.fb.stage),
			huh.NewSelect[string]().
				Title("Source").
				Options(sourceOpts...).
				Value(&m.fb.source),
			huh.NewInput().
				Title("Search").
				Placeholder("name, email, headline...").
				Value(&m.fb.query),
		),
	).WithWidth(m.formWidth())
}

// jobOptionLabel formats a job for the selector.
func jobOptionLabel(j model.Job) string {
	if j.Department != "" {
		return j.Title + " — " + j.Department
	}
	return j.Title
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
