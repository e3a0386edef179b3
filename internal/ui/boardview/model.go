package boardview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/applicant-board/internal/board"
	"github.com/nhle/applicant-board/internal/keys"
	"github.com/nhle/applicant-board/internal/model"
	"github.com/nhle/applicant-board/internal/theme"
)

// OpenApplicantMsg is sent when the user opens an applicant's detail view.
type OpenApplicantMsg struct {
	ApplicantID string
}

// MoveStageMsg requests moving one applicant to a target stage.
type MoveStageMsg struct {
	ApplicantID string
	Target      model.StageID
}

// OpenStagePickerMsg requests the stage picker for a single applicant.
type OpenStagePickerMsg struct {
	ApplicantID string
}

// OpenBulkStagePickerMsg requests the stage picker for the selection set.
type OpenBulkStagePickerMsg struct{}

// ToggleSelectMsg toggles an applicant in the selection set.
type ToggleSelectMsg struct {
	ApplicantID string
}

// SearchMsg carries a submitted free-text search query.
type SearchMsg struct {
	Query string
}

// minColumnWidth keeps columns readable on narrow terminals.
const minColumnWidth = 20

// Model is the kanban board view: one column per pipeline stage.
type Model struct {
	columns  []board.Column
	selected func(id string) bool
	keys     *keys.KeyMap

	focusCol int
	focusRow int
	offsets  []int

	searchMode  bool
	searchInput textinput.Model

	width  int
	height int
}

// New creates a new board view model. The selected func reports whether an
// applicant is in the bulk selection set.
func New(k *keys.KeyMap, selected func(id string) bool, width, height int) Model {
	si := textinput.New()
	si.Placeholder = "search applicants..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		keys:        k,
		selected:    selected,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// Init returns the initial command for the board view.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetColumns replaces the displayed columns, clamping the cursor so it
// stays on a valid card.
func (m *Model) SetColumns(columns []board.Column) {
	m.columns = columns
	if len(m.offsets) != len(columns) {
		m.offsets = make([]int, len(columns))
	}
	m.clampCursor()
}

// FocusedApplicant returns the applicant under the cursor, if any.
func (m Model) FocusedApplicant() (model.Applicant, bool) {
	if m.focusCol >= len(m.columns) {
		return model.Applicant{}, false
	}
	col := m.columns[m.focusCol]
	if m.focusRow >= len(col.Applicants) {
		return model.Applicant{}, false
	}
	return col.Applicants[m.focusRow], true
}

// Update handles messages for the board view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}
	return m, nil
}

// handleSearchKeys processes key input while the search bar is open.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		query := strings.TrimSpace(m.searchInput.Value())
		return m, func() tea.Msg {
			return SearchMsg{Query: query}
		}

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		return m, func() tea.Msg {
			return SearchMsg{Query: ""}
		}
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Left):
		m.moveFocus(-1)
		return m, nil

	case key.Matches(msg, m.keys.Right):
		m.moveFocus(1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveRow(1)
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveRow(-1)
		return m, nil

	case key.Matches(msg, m.keys.Select):
		a, ok := m.FocusedApplicant()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return OpenApplicantMsg{ApplicantID: a.ID}
		}

	case key.Matches(msg, m.keys.ToggleSelect):
		a, ok := m.FocusedApplicant()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return ToggleSelectMsg{ApplicantID: a.ID}
		}

	case key.Matches(msg, m.keys.MoveNext):
		a, ok := m.FocusedApplicant()
		if !ok {
			return m, nil
		}
		next, ok := model.NextStage(a.Stage)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return MoveStageMsg{ApplicantID: a.ID, Target: next}
		}

	case key.Matches(msg, m.keys.MovePrev):
		a, ok := m.FocusedApplicant()
		if !ok {
			return m, nil
		}
		prev, ok := model.PrevStage(a.Stage)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return MoveStageMsg{ApplicantID: a.ID, Target: prev}
		}

	case key.Matches(msg, m.keys.MoveTo):
		a, ok := m.FocusedApplicant()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return OpenStagePickerMsg{ApplicantID: a.ID}
		}

	case key.Matches(msg, m.keys.BulkMove):
		return m, func() tea.Msg {
			return OpenBulkStagePickerMsg{}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()
	}

	return m, nil
}

// moveFocus shifts the focused column by delta, clamping to the board.
func (m *Model) moveFocus(delta int) {
	if len(m.columns) == 0 {
		return
	}
	m.focusCol += delta
	if m.focusCol < 0 {
		m.focusCol = 0
	}
	if m.focusCol > len(m.columns)-1 {
		m.focusCol = len(m.columns) - 1
	}
	m.clampCursor()
}

// moveRow shifts the focused row by delta within the focused column.
func (m *Model) moveRow(delta int) {
	if m.focusCol >= len(m.columns) {
		return
	}
	n := len(m.columns[m.focusCol].Applicants)
	if n == 0 {
		m.focusRow = 0
		return
	}
	m.focusRow += delta
	if m.focusRow < 0 {
		m.focusRow = 0
	}
	if m.focusRow > n-1 {
		m.focusRow = n - 1
	}
	m.scrollIntoView()
}

// clampCursor keeps focusRow valid for the focused column.
func (m *Model) clampCursor() {
	if len(m.columns) == 0 {
		m.focusCol = 0
		m.focusRow = 0
		return
	}
	if m.focusCol > len(m.columns)-1 {
		m.focusCol = len(m.columns) - 1
	}
	n := len(m.columns[m.focusCol].Applicants)
	if n == 0 {
		m.focusRow = 0
	} else if m.focusRow > n-1 {
		m.focusRow = n - 1
	}
	m.scrollIntoView()
}

// scrollIntoView adjusts the focused column's scroll offset so the
// focused card is visible.
func (m *Model) scrollIntoView() {
	if m.focusCol >= len(m.offsets) {
		return
	}
	visible := m.visibleCards()
	if visible < 1 {
		visible = 1
	}
	off := m.offsets[m.focusCol]
	if m.focusRow < off {
		off = m.focusRow
	}
	if m.focusRow >= off+visible {
		off = m.focusRow - visible + 1
	}
	m.offsets[m.focusCol] = off
}

// visibleCards returns how many cards fit in a column at the current height.
func (m Model) visibleCards() int {
	// Column frame: border (2) + header line + count line.
	usable := m.height - 4
	return usable / cardLines
}

// View renders the kanban board: columns joined horizontally.
func (m Model) View() string {
	var searchBar string
	if m.searchMode {
		searchBar = lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
	}

	if len(m.columns) == 0 {
		return m.renderEmptyState()
	}

	colWidth := m.columnWidth()
	colHeight := m.height
	if m.searchMode {
		colHeight--
	}

	rendered := make([]string, len(m.columns))
	for i, col := range m.columns {
		rendered[i] = m.renderColumn(i, col, colWidth, colHeight)
	}

	boardRow := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	if m.searchMode {
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, boardRow)
	}
	return boardRow
}

// renderColumn draws a single stage column with its header and cards.
func (m Model) renderColumn(idx int, col board.Column, width, height int) string {
	inner := width - 4 // border + padding

	header := theme.StageStyle(col.Stage).Render(col.Stage.Name)
	count := theme.DimmedStyle.Render(
		fmt.Sprintf("%d applicant(s)", len(col.Applicants)),
	)

	lines := []string{header, count}

	visible := m.visibleCards()
	off := 0
	if idx < len(m.offsets) {
		off = m.offsets[idx]
	}
	end := off + visible
	if end > len(col.Applicants) {
		end = len(col.Applicants)
	}

	for row := off; row < end; row++ {
		a := col.Applicants[row]
		focused := idx == m.focusCol && row == m.focusRow
		lines = append(lines, renderCard(a, inner, focused, m.selected(a.ID)))
	}

	if len(col.Applicants) > end {
		lines = append(lines, theme.DimmedStyle.Render(
			fmt.Sprintf("… %d more", len(col.Applicants)-end),
		))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)

	style := theme.ColumnStyle
	if idx == m.focusCol {
		style = theme.FocusedColumnStyle
	}
	return style.Width(width - 2).Height(height - 2).Render(content)
}

// renderEmptyState shows guidance text when the board has no columns.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	return style.Render(
		"No applicants loaded.\n\n" +
			"Press 'r' to refresh or 'c' to configure the applicant store.",
	)
}

// columnWidth splits the available width evenly across columns.
func (m Model) columnWidth() int {
	if len(m.columns) == 0 {
		return m.width
	}
	w := m.width / len(m.columns)
	if w < minColumnWidth {
		w = minColumnWidth
	}
	return w
}

// SetSize updates the board dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.searchInput.Width = width - 4
	m.clampCursor()
}
