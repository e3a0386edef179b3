package sync

import (
	"context"
	"fmt"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/applicant-board/internal/api"
	"github.com/nhle/applicant-board/internal/board"
	"github.com/nhle/applicant-board/internal/model"
	"github.com/nhle/applicant-board/internal/store"
)

// RefreshState represents the current state of a background refresh.
type RefreshState int

const (
	RefreshIdle RefreshState = iota
	RefreshRunning
	RefreshError
)

// Status holds the refresh state of the remote applicant store.
type Status struct {
	State       RefreshState
	LastRefresh time.Time
	Error       error
}

// RefreshResultMsg is a tea.Msg sent when a background refresh completes.
type RefreshResultMsg struct {
	Applicants []model.Applicant
	Total      int
	Error      error
	AuthError  *AuthErrorMsg
	NewCount   int
}

// AuthErrorMsg is a tea.Msg sent when the store rejects our credentials.
type AuthErrorMsg struct {
	Message string
}

// fetchTimeout is the maximum time allowed for a single refresh.
const fetchTimeout = 30 * time.Second

// Poller periodically reloads the board collection from the remote store,
// mirrors the result into the snapshot cache, and raises notifications for
// newly seen applicants. Results reach the Bubble Tea runtime through a
// buffered channel.
type Poller struct {
	ctrl     *board.Controller
	cache    store.Store
	interval time.Duration

	status    Status
	resultCh  chan RefreshResultMsg
	triggerCh chan struct{}
	stopCh    chan struct{}
	mu        gosync.Mutex
	running   bool
}

// New creates a Poller over the given controller and snapshot cache.
func New(ctrl *board.Controller, cache store.Store, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 120 * time.Second
	}
	return &Poller{
		ctrl:      ctrl,
		cache:     cache,
		interval:  interval,
		resultCh:  make(chan RefreshResultMsg, 16),
		triggerCh: make(chan struct{}, 16),
		stopCh:    make(chan struct{}),
	}
}

// Start returns a tea.Cmd that starts the polling goroutine and subscribes
// to results. The returned command waits on the result channel and returns
// RefreshResultMsg messages to the Bubble Tea runtime.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.mu.Unlock()

	go p.loop()

	return p.waitForResult()
}

// Stop halts the polling goroutine.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	close(p.stopCh)
	p.running = false
}

// Refresh triggers an immediate reload without waiting for the ticker.
func (p *Poller) Refresh() {
	select {
	case p.triggerCh <- struct{}{}:
	default:
		// Channel full; a refresh is already queued.
	}
}

// Status returns the current refresh status.
func (p *Poller) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// loop runs the refresh cycle until stopped.
func (p *Poller) loop() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Do an initial refresh immediately.
	p.refresh()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.refresh()
		case <-p.triggerCh:
			p.refresh()
		}
	}
}

// refresh performs a single reload, mirrors the collection into the cache,
// and sends a RefreshResultMsg on the result channel.
func (p *Poller) refresh() {
	p.setStatus(RefreshRunning, nil)

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	if err := p.ctrl.Reload(ctx); err != nil {
		p.setStatus(RefreshError, err)

		if api.IsAuthError(err) {
			p.sendResult(RefreshResultMsg{
				Error: err,
				AuthError: &AuthErrorMsg{
					Message: "authentication failed. Press 'c' to reconfigure.",
				},
			})
			return
		}

		p.sendResult(RefreshResultMsg{Error: err})
		return
	}

	applicants := p.ctrl.Applicants()
	newCount := p.mirrorToCache(ctx, applicants)

	p.setStatus(RefreshIdle, nil)
	p.sendResult(RefreshResultMsg{
		Applicants: applicants,
		Total:      p.ctrl.Total(),
		NewCount:   newCount,
	})
}

// mirrorToCache upserts the collection into the snapshot cache, creates
// notifications for applicants seen for the first time, and prunes entries
// deleted remotely when the load was unfiltered. Cache failures are
// swallowed; the cache is best-effort.
func (p *Poller) mirrorToCache(ctx context.Context, applicants []model.Applicant) int {
	if p.cache == nil {
		return 0
	}

	existing, _ := p.cache.GetApplicants(ctx, store.SnapshotFilter{})
	existingIDs := make(map[string]bool, len(existing))
	for _, a := range existing {
		existingIDs[a.ID] = true
	}

	newCount := 0
	firstLoad := len(existing) == 0
	for _, a := range applicants {
		if existingIDs[a.ID] || firstLoad {
			continue
		}
		newCount++
		_ = p.cache.CreateNotification(ctx, model.Notification{
			ApplicantID: a.ID,
			Message:     fmt.Sprintf("New applicant: %s (%s)", a.Name, a.Job.Title),
			CreatedAt:   time.Now(),
		})
	}

	_ = p.cache.UpsertApplicants(ctx, applicants)

	if p.ctrl.Filter().IsZero() {
		ids := make([]string, len(applicants))
		for i, a := range applicants {
			ids[i] = a.ID
		}
		_ = p.cache.DeleteApplicantsNotIn(ctx, ids)
	}

	return newCount
}

// setStatus updates the refresh status.
func (p *Poller) setStatus(state RefreshState, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status.State = state
	p.status.Error = err
	if state == RefreshIdle && err == nil {
		p.status.LastRefresh = time.Now()
	}
}

// sendResult sends a RefreshResultMsg on the result channel without blocking.
func (p *Poller) sendResult(msg RefreshResultMsg) {
	select {
	case p.resultCh <- msg:
	default:
		// Drop if channel is full to avoid blocking the poller.
	}
}

// waitForResult returns a tea.Cmd that waits for the next result from
// the result channel. Stopping the poller releases the waiter so replaced
// pollers do not strand a goroutine.
func (p *Poller) waitForResult() tea.Cmd {
	return func() tea.Msg {
		select {
		case result := <-p.resultCh:
			return result
		case <-p.stopCh:
			return nil
		}
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next refresh
// result. This should be called after processing a RefreshResultMsg to
// continue listening for future results.
func (p *Poller) WaitForNextResult() tea.Cmd {
	return p.waitForResult()
}
