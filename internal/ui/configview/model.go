package configview

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/applicant-board/internal/api"
	"github.com/nhle/applicant-board/internal/credential"
	"github.com/nhle/applicant-board/internal/model"
	"github.com/nhle/applicant-board/internal/theme"
)

// Mode represents the current state of the configuration view.
type Mode int

const (
	ModeForm           Mode = iota // Edit connection settings
	ModeValidating                 // Testing connection
	ModeValidateResult             // Show validation result
)

// ConfigSavedMsg signals the connection settings were saved. The app
// rebuilds its API client from the new settings.
type ConfigSavedMsg struct {
	Config *model.AppConfig
	Token  string
}

// ConfigCancelMsg signals the config view should close without saving.
type ConfigCancelMsg struct{}

// validateResultMsg carries the result of a connection test.
type validateResultMsg struct {
	err error
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	baseURL  string
	token    string
	interval string
}

// Model is the Bubble Tea model for the connection settings view.
type Model struct {
	mode Mode
	form *huh.Form
	fb   *formBindings

	configPath string
	pending    *model.AppConfig
	validError error
	spinner    spinner.Model

	width  int
	height int
}

// New creates a new configuration view model. configPath is where the
// settings are persisted.
func New(configPath string, width, height int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		mode:       ModeForm,
		fb:         &formBindings{},
		configPath: configPath,
		spinner:    sp,
		width:      width,
		height:     height,
	}
}

// Start initializes the form, pre-filled from the current configuration.
// The stored token is never pre-filled.
func (m *Model) Start(cfg *model.AppConfig) tea.Cmd {
	m.mode = ModeForm
	m.validError = nil
	m.fb.baseURL = ""
	m.fb.token = ""
	m.fb.interval = "120"
	if cfg != nil {
		m.fb.baseURL = cfg.Remote.BaseURL
		if cfg.Remote.PollIntervalSec > 0 {
			m.fb.interval = strconv.Itoa(cfg.Remote.PollIntervalSec)
		}
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the config view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case validateResultMsg:
		m.validError = msg.err
		if msg.err != nil {
			m.mode = ModeValidateResult
			return m, nil
		}
		return m.save()

	case spinner.TickMsg:
		if m.mode == ModeValidating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeValidating:
			if msg.String() == "esc" {
				m.mode = ModeForm
				return m, nil
			}
			return m, nil
		case ModeValidateResult:
			return m.handleResultKeys(msg)
		}
	}

	return m.updateForm(msg)
}

// handleResultKeys processes key events on the validation failure screen.
func (m Model) handleResultKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.mode = ModeForm
		m.validError = nil
		m.form = m.buildForm()
		return m, m.form.Init()
	case "s":
		// Save anyway; the store may be temporarily unreachable.
		return m.save()
	}
	return m, nil
}

// updateForm dispatches messages to the huh form.
func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil || m.mode != ModeForm {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m.startValidation()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return ConfigCancelMsg{} }
	}

	return m, cmd
}

// startValidation tests the connection before persisting anything.
func (m Model) startValidation() (Model, tea.Cmd) {
	interval, _ := strconv.Atoi(strings.TrimSpace(m.fb.interval))

	m.pending = &model.AppConfig{
		Remote: model.RemoteConfig{
			BaseURL:         strings.TrimRight(strings.TrimSpace(m.fb.baseURL), "/"),
			PollIntervalSec: interval,
		},
		Display: model.DisplayConfig{Theme: "default"},
	}

	m.mode = ModeValidating
	baseURL := m.pending.Remote.BaseURL
	token := m.fb.token

	return m, tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			client := api.NewClient(baseURL, token)
			params := url.Values{}
			params.Set("limit", "1")
			_, err := client.ListApplicants(context.Background(), params)
			return validateResultMsg{err: err}
		},
	)
}

// save persists the config file and the token, then notifies the app.
func (m Model) save() (Model, tea.Cmd) {
	cfg := m.pending
	token := m.fb.token
	path := m.configPath

	return m, func() tea.Msg {
		if err := model.SaveConfig(path, cfg); err != nil {
			return validateResultMsg{err: err}
		}
		if err := credential.Set(credential.TokenKey, token); err != nil {
			return validateResultMsg{
				err: fmt.Errorf("config saved but storing token failed: %w", err),
			}
		}
		return ConfigSavedMsg{Config: cfg, Token: token}
	}
}

// View renders the config view based on the current mode.
func (m Model) View() string {
	switch m.mode {
	case ModeForm:
		return m.viewForm()
	case ModeValidating:
		return m.viewValidating()
	case ModeValidateResult:
		return m.viewValidateResult()
	default:
		return ""
	}
}

func (m Model) viewForm() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("Applicant Store Connection") + "\n" +
		m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m Model) viewValidating() string {
	style := lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height)

	content := fmt.Sprintf(
		"%s Testing connection...\n\nPress esc to cancel.",
		m.spinner.View(),
	)

	return style.Render(content)
}

func (m Model) viewValidateResult() string {
	style := lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height)

	errStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorRed)

	errText := ""
	if m.validError != nil {
		errText = m.validError.Error()
	}

	content := errStyle.Render("Connection failed") + "\n\n" +
		errText + "\n\n" +
		lipgloss.NewStyle().Foreground(theme.ColorGray).
			Render("enter/esc edit | s save anyway")

	return style.Render(content)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Base URL").
				Description("Applicant store API root (e.g., https://jobs.example.com/api)").
				Placeholder("https://jobs.example.com/api").
				Value(&m.fb.baseURL).
				Validate(validateURL),
			huh.NewInput().
				Title("API Token").
				Description("Bearer token for the applicant store").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.token).
				Validate(validateRequired("Token")),
			huh.NewInput().
				Title("Poll Interval").
				Description("Background refresh interval in seconds").
				Placeholder("120").
				Value(&m.fb.interval).
				Validate(validateInterval),
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

// --- Validators ---

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateURL(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("URL is required")
	}
	parsed, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("URL must include scheme and host (e.g., https://example.com)")
	}
	return nil
}

func validateInterval(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fmt.Errorf("interval must be a positive number of seconds")
	}
	return nil
}
