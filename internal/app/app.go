package app

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/applicant-board/internal/api"
	"github.com/nhle/applicant-board/internal/board"
	"github.com/nhle/applicant-board/internal/keys"
	"github.com/nhle/applicant-board/internal/model"
	"github.com/nhle/applicant-board/internal/store"
	appsync "github.com/nhle/applicant-board/internal/sync"
	"github.com/nhle/applicant-board/internal/ui"
	"github.com/nhle/applicant-board/internal/ui/boardview"
	"github.com/nhle/applicant-board/internal/ui/command"
	"github.com/nhle/applicant-board/internal/ui/configview"
	"github.com/nhle/applicant-board/internal/ui/detail"
	"github.com/nhle/applicant-board/internal/ui/filterform"
	helpview "github.com/nhle/applicant-board/internal/ui/help"
	"github.com/nhle/applicant-board/internal/ui/noteform"
	"github.com/nhle/applicant-board/internal/ui/rejectform"
	"github.com/nhle/applicant-board/internal/ui/stagepicker"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewBoard ViewState = iota
	ViewDetail
	ViewNoteForm
	ViewRejectForm
	ViewStagePicker
	ViewFilter
	ViewConfig
	ViewHelp
	ViewCommand
)

// Model is the root Bubble Tea model that manages view routing, layout,
// and access to the pipeline controller.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout

	cfg        *model.AppConfig
	configPath string
	configured bool

	client *api.Client
	ctrl   *board.Controller
	cache  store.Store
	poller *appsync.Poller
	keys   *keys.KeyMap

	boardView   boardview.Model
	detailView  detail.Model
	noteForm    noteform.Model
	rejectForm  rejectform.Model
	stagePicker stagepicker.Model
	filterForm  filterform.Model
	configView  configview.Model
	helpView    helpview.Model
	commandView command.Model

	jobs             []model.Job
	ready            bool
	liveLoaded       bool
	unreadCount      int
	authErrorMessage string
	statusMsg        string

	// startupCmd carries the first-run config form command, prepared in New
	// because Init cannot mutate the model.
	startupCmd tea.Cmd
}

// New creates the root application model. configured reports whether a
// usable remote connection (base URL and token) exists; when false the app
// opens on the connection settings view.
func New(
	cfg *model.AppConfig,
	configPath string,
	client *api.Client,
	ctrl *board.Controller,
	cache store.Store,
	poller *appsync.Poller,
	configured bool,
) Model {
	k := keys.DefaultKeyMap()

	m := Model{
		currentView: ViewBoard,
		cfg:         cfg,
		configPath:  configPath,
		configured:  configured,
		client:      client,
		ctrl:        ctrl,
		cache:       cache,
		poller:      poller,
		keys:        k,
		detailView:  detail.New(k, 80, 24),
		noteForm:    noteform.New(80, 24),
		rejectForm:  rejectform.New(80, 24),
		stagePicker: stagepicker.New(80, 24),
		filterForm:  filterform.New(80, 24),
		configView:  configview.New(configPath, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		commandView: command.New(80, 24),
	}
	m.boardView = boardview.New(k, ctrl.IsSelected, 80, 24)

	if !configured {
		m.currentView = ViewConfig
		m.startupCmd = m.configView.Start(cfg)
	}
	return m
}

// Init shows cached applicants immediately and starts polling, or enters
// first-run setup when no connection is configured.
func (m Model) Init() tea.Cmd {
	if !m.configured {
		return m.startupCmd
	}
	return tea.Batch(
		m.loadSnapshot(),
		m.loadJobs(),
		m.poller.Start(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.boardView.SetSize(contentWidth, contentHeight)
		m.detailView.SetSize(contentWidth, contentHeight)
		m.noteForm.SetSize(contentWidth, contentHeight)
		m.rejectForm.SetSize(contentWidth, contentHeight)
		m.stagePicker.SetSize(contentWidth, contentHeight)
		m.filterForm.SetSize(contentWidth, contentHeight)
		m.configView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.commandView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case appsync.RefreshResultMsg:
		if msg.AuthError != nil {
			m.authErrorMessage = msg.AuthError.Message
		} else if msg.Error == nil {
			m.authErrorMessage = ""
		}
		if msg.Error == nil {
			m.liveLoaded = true
			m.boardView.SetColumns(m.ctrl.Columns())
			m.refreshDetail()
		}
		return m, tea.Batch(
			m.poller.WaitForNextResult(),
			m.fetchUnreadCount(),
		)

	case unreadCountMsg:
		m.unreadCount = msg.count
		return m, nil

	case snapshotLoadedMsg:
		// Only show the cached snapshot while no live result has landed; an
		// empty live fetch must not be repainted by a late cache read.
		if !m.liveLoaded && len(msg.applicants) > 0 {
			m.boardView.SetColumns(
				board.Partition(msg.applicants, model.StageCatalog()),
			)
		}
		return m, nil

	case jobsLoadedMsg:
		m.jobs = msg.jobs
		m.filterForm.SetJobs(msg.jobs)
		return m, nil

	case opResultMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("%s failed: %v", msg.action, msg.err)
		} else {
			m.statusMsg = ""
			m.liveLoaded = true
		}
		m.boardView.SetColumns(m.ctrl.Columns())
		m.refreshDetail()
		return m, nil

	case boardview.OpenApplicantMsg:
		a, ok := m.ctrl.Get(msg.ApplicantID)
		if !ok {
			return m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewDetail
		m.detailView.SetApplicant(&a)
		return m, nil

	case boardview.MoveStageMsg:
		return m, m.moveStage(msg.ApplicantID, msg.Target)

	case boardview.OpenStagePickerMsg:
		a, ok := m.ctrl.Get(msg.ApplicantID)
		if !ok {
			return m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewStagePicker
		return m, m.stagePicker.Start(a.ID, a.Name, a.Stage)

	case boardview.OpenBulkStagePickerMsg:
		n := m.ctrl.SelectionLen()
		if n == 0 {
			m.statusMsg = "no applicants selected"
			return m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewStagePicker
		return m, m.stagePicker.StartBulk(n)

	case boardview.ToggleSelectMsg:
		m.ctrl.ToggleSelect(msg.ApplicantID)
		return m, nil

	case boardview.SearchMsg:
		f := m.ctrl.Filter()
		f.Query = msg.Query
		m.ctrl.SetFilter(f)
		return m, m.reload()

	case detail.BackMsg:
		m.currentView = ViewBoard
		return m, nil

	case detail.ActionMsg:
		return m.handleDetailAction(msg)

	case noteform.NoteSubmittedMsg:
		m.currentView = m.previousView
		return m, m.addNote(msg.ApplicantID, msg.Content)

	case noteform.NoteCancelMsg:
		m.currentView = m.previousView
		return m, nil

	case rejectform.RejectSubmittedMsg:
		m.currentView = ViewBoard
		return m, m.reject(msg.ApplicantID, msg.Reason)

	case rejectform.RejectCancelMsg:
		m.currentView = m.previousView
		return m, nil

	case stagepicker.StagePickedMsg:
		m.currentView = m.previousView
		return m, m.moveStage(msg.ApplicantID, msg.Target)

	case stagepicker.BulkStagePickedMsg:
		m.currentView = ViewBoard
		return m, m.bulkMoveSelected(msg.Target)

	case stagepicker.StagePickerCancelMsg:
		m.currentView = m.previousView
		return m, nil

	case filterform.FilterAppliedMsg:
		m.currentView = ViewBoard
		m.ctrl.SetFilter(msg.Filter)
		return m, m.reload()

	case filterform.FilterCancelMsg:
		m.currentView = ViewBoard
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		return m.executeCommand(string(msg))

	case configview.ConfigSavedMsg:
		return m.applyConfig(msg)

	case configview.ConfigCancelMsg:
		if !m.configured {
			// First-run setup was abandoned; nothing to show.
			return m, tea.Quit
		}
		m.currentView = m.previousView
		return m, nil

	case tea.KeyMsg:
		if handled, mdl, cmd := m.handleGlobalKeys(msg); handled {
			return mdl, cmd
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleGlobalKeys processes keys that work regardless of the active view,
// plus board-level shortcuts that need controller access.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.poller.Stop()
		return true, m, tea.Quit

	case "q":
		if m.currentView == ViewBoard {
			m.poller.Stop()
			return true, m, tea.Quit
		}

	case "?":
		if m.formOpen() {
			break
		}
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return true, m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return true, m, nil

	case ":":
		if m.formOpen() {
			break
		}
		if m.currentView == ViewCommand {
			m.currentView = m.previousView
			return true, m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return true, m, m.commandView.Focus()

	case "c":
		if m.currentView == ViewBoard {
			m.previousView = m.currentView
			m.currentView = ViewConfig
			return true, m, m.configView.Start(m.cfg)
		}

	case "r":
		if m.currentView == ViewBoard {
			m.poller.Refresh()
			return true, m, nil
		}

	case "f":
		if m.currentView == ViewBoard {
			m.previousView = m.currentView
			m.currentView = ViewFilter
			return true, m, m.filterForm.Start(m.ctrl.Filter())
		}

	case "esc":
		if m.currentView == ViewBoard && m.ctrl.SelectionLen() > 0 {
			m.ctrl.ClearSelection()
			return true, m, nil
		}

	case "n":
		if m.currentView == ViewBoard {
			if a, ok := m.boardView.FocusedApplicant(); ok {
				m.previousView = m.currentView
				m.currentView = ViewNoteForm
				return true, m, m.noteForm.Start(a.ID, a.Name)
			}
		}

	case "b":
		if m.currentView == ViewBoard {
			if a, ok := m.boardView.FocusedApplicant(); ok {
				return true, m, m.toggleBookmark(a.ID)
			}
		}

	case "x":
		if m.currentView == ViewBoard {
			if a, ok := m.boardView.FocusedApplicant(); ok {
				m.previousView = m.currentView
				m.currentView = ViewRejectForm
				return true, m, m.rejectForm.Start(a.ID, a.Name)
			}
		}

	case "1", "2", "3", "4", "5":
		if m.currentView == ViewBoard {
			if a, ok := m.boardView.FocusedApplicant(); ok {
				rating := int(msg.String()[0] - '0')
				return true, m, m.rate(a.ID, rating)
			}
		}
	}

	return false, m, nil
}

// handleDetailAction routes annotation actions raised by the detail view.
func (m Model) handleDetailAction(msg detail.ActionMsg) (tea.Model, tea.Cmd) {
	a, ok := m.ctrl.Get(msg.ApplicantID)
	if !ok {
		return m, nil
	}

	switch msg.Action {
	case "note":
		m.previousView = m.currentView
		m.currentView = ViewNoteForm
		return m, m.noteForm.Start(a.ID, a.Name)

	case "bookmark":
		return m, m.toggleBookmark(a.ID)

	case "reject":
		m.previousView = m.currentView
		m.currentView = ViewRejectForm
		return m, m.rejectForm.Start(a.ID, a.Name)

	case "move":
		m.previousView = m.currentView
		m.currentView = ViewStagePicker
		return m, m.stagePicker.Start(a.ID, a.Name, a.Stage)

	case "rate":
		return m, m.rate(a.ID, msg.Rating)
	}

	return m, nil
}

// applyConfig rebuilds the remote client and poller after the connection
// settings change.
func (m Model) applyConfig(msg configview.ConfigSavedMsg) (tea.Model, tea.Cmd) {
	m.cfg = msg.Config
	m.configured = true
	m.currentView = ViewBoard
	m.authErrorMessage = ""

	m.client = api.NewClient(msg.Config.Remote.BaseURL, msg.Token)
	m.ctrl.SetRemote(m.client)

	// The poll interval may have changed; replace the poller.
	m.poller.Stop()
	m.poller = appsync.New(
		m.ctrl,
		m.cache,
		time.Duration(msg.Config.Remote.PollIntervalSec)*time.Second,
	)

	return m, tea.Batch(m.poller.Start(), m.loadJobs())
}

// formOpen reports whether a view with text input focus is active, so
// global shortcut characters pass through to it.
func (m Model) formOpen() bool {
	switch m.currentView {
	case ViewNoteForm, ViewRejectForm, ViewStagePicker, ViewFilter,
		ViewConfig, ViewCommand:
		return true
	}
	return false
}

// refreshDetail re-renders the detail view when its applicant changed in a
// reload. A rejected or filtered-out applicant closes the view.
func (m *Model) refreshDetail() {
	id := m.detailView.ApplicantID()
	if id == "" {
		return
	}
	a, ok := m.ctrl.Get(id)
	if !ok {
		if m.currentView == ViewDetail {
			m.currentView = ViewBoard
		}
		m.detailView.SetApplicant(nil)
		return
	}
	m.detailView.RefreshApplicant(&a)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewBoard:
		m.boardView, cmd = m.boardView.Update(msg)
	case ViewDetail:
		m.detailView, cmd = m.detailView.Update(msg)
	case ViewNoteForm:
		m.noteForm, cmd = m.noteForm.Update(msg)
	case ViewRejectForm:
		m.rejectForm, cmd = m.rejectForm.Update(msg)
	case ViewStagePicker:
		m.stagePicker, cmd = m.stagePicker.Update(msg)
	case ViewFilter:
		m.filterForm, cmd = m.filterForm.Update(msg)
	case ViewConfig:
		m.configView, cmd = m.configView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	headerTitle := "Applicant Board"
	if m.unreadCount > 0 {
		headerTitle = fmt.Sprintf("Applicant Board [%d new]", m.unreadCount)
	}
	header := m.layout.RenderHeader(headerTitle, m.refreshStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewBoard:
		return m.boardView.View()
	case ViewDetail:
		return m.detailView.View()
	case ViewNoteForm:
		return m.noteForm.View()
	case ViewRejectForm:
		return m.rejectForm.View()
	case ViewStagePicker:
		return m.stagePicker.View()
	case ViewFilter:
		return m.filterForm.View()
	case ViewConfig:
		return m.configView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return ""
	}
}

// refreshStatus returns a short string describing the background refresh
// state for the header.
func (m Model) refreshStatus() string {
	status := m.poller.Status()
	switch status.State {
	case appsync.RefreshRunning:
		return "refreshing"
	case appsync.RefreshError:
		return "⚠ store unreachable"
	default:
		if status.LastRefresh.IsZero() {
			return ""
		}
		return "updated " + status.LastRefresh.Format("15:04:05")
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	// Show errors prominently when present.
	if m.authErrorMessage != "" && m.currentView == ViewBoard {
		return m.authErrorMessage
	}
	if m.statusMsg != "" && m.currentView == ViewBoard {
		return m.statusMsg
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return ": close command | enter execute | esc back"
	case ViewDetail:
		return "n note | b bookmark | 1-5 rate | m move | x reject | j/k scroll | esc back"
	case ViewNoteForm, ViewRejectForm, ViewStagePicker, ViewFilter:
		return "enter submit | esc cancel"
	case ViewConfig:
		return "enter submit | esc cancel"
	default:
		hints := "q quit | ? help | enter open | space select | [/] move | / search | f filter"
		var prefix []string
		if summary := m.ctrl.Filter().Summary(); summary != "" {
			prefix = append(prefix, summary)
		}
		if n := m.ctrl.SelectionLen(); n > 0 {
			prefix = append(prefix, fmt.Sprintf("%d selected (M to move)", n))
		}
		if len(prefix) > 0 {
			joined := prefix[0]
			for _, p := range prefix[1:] {
				joined += " | " + p
			}
			return joined + " | " + hints
		}
		return hints
	}
}
