package sync_test

import (
	"context"
	"net/url"
	gosync "sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/applicant-board/internal/api"
	"github.com/nhle/applicant-board/internal/board"
	"github.com/nhle/applicant-board/internal/model"
	"github.com/nhle/applicant-board/internal/store"
	appsync "github.com/nhle/applicant-board/internal/sync"
	"github.com/nhle/applicant-board/tests/testutil"
)

// stubRemote serves a fixed applicant list for refresh cycles.
type stubRemote struct {
	mu         gosync.Mutex
	applicants []model.Applicant
}

func (r *stubRemote) setApplicants(applicants []model.Applicant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applicants = applicants
}

func (r *stubRemote) ListApplicants(ctx context.Context, params url.Values) (*api.ListResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Applicant, len(r.applicants))
	copy(out, r.applicants)
	return &api.ListResult{Applicants: out, Total: len(out)}, nil
}

func (r *stubRemote) UpdateStage(ctx context.Context, id string, stage model.StageID) error {
	return nil
}

func (r *stubRemote) BulkUpdateStage(ctx context.Context, ids []string, stage model.StageID) error {
	return nil
}

func (r *stubRemote) AddNote(ctx context.Context, id, content string) error { return nil }

func (r *stubRemote) UpdateRating(ctx context.Context, id string, rating int) error { return nil }

func (r *stubRemote) ToggleBookmark(ctx context.Context, id string) (bool, error) {
	return false, nil
}

func (r *stubRemote) Reject(ctx context.Context, id, reason string) error { return nil }

func pollApplicant(id, name string) model.Applicant {
	return model.Applicant{
		ID:        id,
		Name:      name,
		Job:       model.JobRef{ID: "job-1", Title: "Backend Engineer"},
		Stage:     model.StageApplied,
		AppliedAt: time.Now(),
	}
}

func TestPollerInitialRefreshDeliversResult(t *testing.T) {
	remote := &stubRemote{}
	remote.setApplicants([]model.Applicant{
		pollApplicant("a1", "Ada"),
		pollApplicant("a2", "Grace"),
	})

	ctrl := board.NewController(remote)
	ctrl.SetLogf(nil)
	cache := testutil.NewTestStore(t)

	p := appsync.New(ctrl, cache, time.Hour)
	defer p.Stop()

	msg := p.Start()()
	result, ok := msg.(appsync.RefreshResultMsg)
	if !ok {
		t.Fatalf("expected RefreshResultMsg, got %T", msg)
	}
	if result.Error != nil {
		t.Fatalf("refresh: %v", result.Error)
	}
	if result.Total != 2 || len(result.Applicants) != 2 {
		t.Errorf("expected 2 applicants, got total=%d len=%d",
			result.Total, len(result.Applicants))
	}
	// First load seeds the cache without raising notifications.
	if result.NewCount != 0 {
		t.Errorf("expected no new-applicant notifications on first load, got %d",
			result.NewCount)
	}
	if p.Status().State != appsync.RefreshIdle {
		t.Errorf("expected idle status after refresh, got %v", p.Status().State)
	}
}

func TestPollerNotifiesNewApplicants(t *testing.T) {
	remote := &stubRemote{}
	remote.setApplicants([]model.Applicant{pollApplicant("a1", "Ada")})

	ctrl := board.NewController(remote)
	ctrl.SetLogf(nil)
	cache := testutil.NewTestStore(t)

	p := appsync.New(ctrl, cache, time.Hour)
	defer p.Stop()

	if _, ok := p.Start()().(appsync.RefreshResultMsg); !ok {
		t.Fatal("expected initial refresh result")
	}

	remote.setApplicants([]model.Applicant{
		pollApplicant("a1", "Ada"),
		pollApplicant("a2", "Grace"),
	})
	p.Refresh()

	msg := p.WaitForNextResult()()
	result, ok := msg.(appsync.RefreshResultMsg)
	if !ok {
		t.Fatalf("expected RefreshResultMsg, got %T", msg)
	}
	if result.NewCount != 1 {
		t.Errorf("expected 1 new applicant, got %d", result.NewCount)
	}

	unread, err := cache.GetUnreadNotifications(context.Background())
	if err != nil {
		t.Fatalf("get unread: %v", err)
	}
	if len(unread) != 1 || unread[0].ApplicantID != "a2" {
		t.Errorf("expected one notification for a2, got %+v", unread)
	}
}

func TestPollerPrunesDeletedApplicants(t *testing.T) {
	remote := &stubRemote{}
	remote.setApplicants([]model.Applicant{
		pollApplicant("a1", "Ada"),
		pollApplicant("a2", "Grace"),
	})

	ctrl := board.NewController(remote)
	ctrl.SetLogf(nil)
	cache := testutil.NewTestStore(t)

	p := appsync.New(ctrl, cache, time.Hour)
	defer p.Stop()

	if _, ok := p.Start()().(appsync.RefreshResultMsg); !ok {
		t.Fatal("expected initial refresh result")
	}

	// a2 was deleted remotely; the unfiltered reload prunes it.
	remote.setApplicants([]model.Applicant{pollApplicant("a1", "Ada")})
	p.Refresh()
	if _, ok := p.WaitForNextResult()().(appsync.RefreshResultMsg); !ok {
		t.Fatal("expected second refresh result")
	}

	got, err := cache.GetApplicants(context.Background(), store.SnapshotFilter{})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a1" {
		t.Errorf("expected cache pruned to [a1], got %d rows", len(got))
	}
}

func TestStopReleasesPendingWaiter(t *testing.T) {
	remote := &stubRemote{}
	remote.setApplicants([]model.Applicant{pollApplicant("a1", "Ada")})

	ctrl := board.NewController(remote)
	ctrl.SetLogf(func(string, ...interface{}) {})
	cache := testutil.NewTestStore(t)

	p := appsync.New(ctrl, cache, time.Hour)

	if _, ok := p.Start()().(appsync.RefreshResultMsg); !ok {
		t.Fatal("expected initial refresh result")
	}

	// Subscribe with no further refresh coming, then stop the poller. The
	// waiter must return instead of blocking forever; the app replaces the
	// poller on reconfiguration and the old subscription has to unwind.
	wait := p.WaitForNextResult()
	done := make(chan tea.Msg, 1)
	go func() { done <- wait() }()

	p.Stop()

	select {
	case msg := <-done:
		if msg != nil {
			t.Errorf("expected nil from a released waiter, got %T", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("waiter still blocked after Stop")
	}
}
