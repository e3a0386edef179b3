package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/applicant-board/internal/board"
	"github.com/nhle/applicant-board/internal/model"
	"github.com/nhle/applicant-board/internal/store"
)

// opTimeout bounds every user-initiated remote operation.
const opTimeout = 30 * time.Second

// opResultMsg reports the outcome of a controller operation.
type opResultMsg struct {
	action string
	err    error
}

// unreadCountMsg carries the number of unread notifications to the UI.
type unreadCountMsg struct {
	count int
}

// snapshotLoadedMsg carries cached applicants for the pre-fetch board.
type snapshotLoadedMsg struct {
	applicants []model.Applicant
}

// jobsLoadedMsg carries the job openings for the filter form.
type jobsLoadedMsg struct {
	jobs []model.Job
}

// reload returns a command that refetches the collection for the current
// filter.
func (m Model) reload() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return opResultMsg{action: "reload", err: ctrl.Reload(ctx)}
	}
}

// moveStage returns a command that moves one applicant to a target stage.
func (m Model) moveStage(id string, target model.StageID) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return opResultMsg{
			action: "move",
			err:    ctrl.MoveToStage(ctx, id, target),
		}
	}
}

// bulkMoveSelected returns a command that moves the selection set to a
// target stage.
func (m Model) bulkMoveSelected(target model.StageID) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return opResultMsg{
			action: "bulk move",
			err:    ctrl.BulkMoveSelected(ctx, target),
		}
	}
}

// addNote returns a command that appends a note to an applicant.
func (m Model) addNote(id, content string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return opResultMsg{
			action: "add note",
			err:    ctrl.AddNote(ctx, id, content),
		}
	}
}

// rate returns a command that sets an applicant's star rating.
func (m Model) rate(id string, rating int) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return opResultMsg{
			action: "rate",
			err:    ctrl.UpdateRating(ctx, id, rating),
		}
	}
}

// toggleBookmark returns a command that flips an applicant's bookmark.
func (m Model) toggleBookmark(id string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return opResultMsg{
			action: "bookmark",
			err:    ctrl.ToggleBookmark(ctx, id),
		}
	}
}

// reject returns a command that rejects an applicant with a reason.
func (m Model) reject(id, reason string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return opResultMsg{
			action: "reject",
			err:    ctrl.Reject(ctx, id, reason),
		}
	}
}

// loadSnapshot returns a command that reads the cached applicant snapshot
// so the board has content before the first fetch completes.
func (m Model) loadSnapshot() tea.Cmd {
	cache := m.cache
	return func() tea.Msg {
		if cache == nil {
			return snapshotLoadedMsg{}
		}
		applicants, err := cache.GetApplicants(
			context.Background(), store.SnapshotFilter{},
		)
		if err != nil {
			return snapshotLoadedMsg{}
		}
		return snapshotLoadedMsg{applicants: applicants}
	}
}

// loadJobs returns a command that fetches the job openings for the filter
// form, falling back to the cached copy when the store is unreachable.
func (m Model) loadJobs() tea.Cmd {
	client := m.client
	cache := m.cache
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		if client != nil {
			jobs, err := client.ListJobs(ctx)
			if err == nil {
				if cache != nil {
					_ = cache.UpsertJobs(ctx, jobs)
				}
				return jobsLoadedMsg{jobs: jobs}
			}
		}

		if cache != nil {
			if jobs, err := cache.GetJobs(ctx); err == nil {
				return jobsLoadedMsg{jobs: jobs}
			}
		}
		return jobsLoadedMsg{}
	}
}

// fetchUnreadCount returns a command that queries the cache for the number
// of unread notifications.
func (m Model) fetchUnreadCount() tea.Cmd {
	cache := m.cache
	return func() tea.Msg {
		if cache == nil {
			return unreadCountMsg{count: 0}
		}
		notifications, err := cache.GetUnreadNotifications(context.Background())
		if err != nil {
			return unreadCountMsg{count: 0}
		}
		return unreadCountMsg{count: len(notifications)}
	}
}

// markNotificationsRead returns a command that marks every unread
// notification as read.
func (m Model) markNotificationsRead() tea.Cmd {
	cache := m.cache
	return func() tea.Msg {
		if cache == nil {
			return unreadCountMsg{count: 0}
		}
		ctx := context.Background()
		notifications, err := cache.GetUnreadNotifications(ctx)
		if err != nil {
			return unreadCountMsg{count: 0}
		}
		for _, n := range notifications {
			_ = cache.MarkNotificationRead(ctx, n.ID)
		}
		return unreadCountMsg{count: 0}
	}
}

// executeCommand handles a command string from the command palette.
func (m Model) executeCommand(cmd string) (tea.Model, tea.Cmd) {
	switch cmd {
	case "refresh", "reload":
		m.poller.Refresh()
		return m, nil

	case "filter":
		m.previousView = m.currentView
		m.currentView = ViewFilter
		return m, m.filterForm.Start(m.ctrl.Filter())

	case "clear-filter", "clear":
		m.ctrl.SetFilter(board.FilterSpec{})
		return m, m.reload()

	case "clear-selection":
		m.ctrl.ClearSelection()
		return m, nil

	case "mark-read", "clear-notifications":
		return m, m.markNotificationsRead()

	case "configure", "config":
		m.previousView = m.currentView
		m.currentView = ViewConfig
		return m, m.configView.Start(m.cfg)

	case "help":
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil

	case "quit", "q":
		m.poller.Stop()
		return m, tea.Quit

	default:
		m.statusMsg = "unknown command: " + cmd
		return m, nil
	}
}
