package board

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"

	"github.com/nhle/applicant-board/internal/api"
	"github.com/nhle/applicant-board/internal/model"
)

// fakeRemote implements Remote in memory and records every call. Stage
// mutations apply to its collection so reloads return server-side state.
type fakeRemote struct {
	mu         sync.Mutex
	applicants []model.Applicant

	listCalls  int
	lastParams url.Values

	updateStageCalls int
	bulkCalls        int
	bulkIDs          []string
	noteCalls        int
	ratingCalls      int
	rejectCalls      int

	bookmarkState bool

	failUpdateStage bool
	failBulk        bool
	failRating      bool
	failReject      bool
	failBookmark    bool
}

var errRemote = errors.New("remote store unavailable")

func (f *fakeRemote) ListApplicants(_ context.Context, params url.Values) (*api.ListResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	f.lastParams = params

	// Rejected applicants never appear in board list responses.
	var out []model.Applicant
	for _, a := range f.applicants {
		if a.Stage != model.StageRejected {
			out = append(out, a)
		}
	}
	return &api.ListResult{Applicants: out, Total: len(out)}, nil
}

func (f *fakeRemote) UpdateStage(_ context.Context, id string, stage model.StageID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateStageCalls++
	if f.failUpdateStage {
		return errRemote
	}
	f.setStage(id, stage)
	return nil
}

func (f *fakeRemote) BulkUpdateStage(_ context.Context, ids []string, stage model.StageID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bulkCalls++
	f.bulkIDs = ids
	if f.failBulk {
		return errRemote
	}
	for _, id := range ids {
		f.setStage(id, stage)
	}
	return nil
}

func (f *fakeRemote) AddNote(_ context.Context, id, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.noteCalls++
	for i := range f.applicants {
		if f.applicants[i].ID == id {
			f.applicants[i].Notes = append(f.applicants[i].Notes, model.Note{
				ID:      "n1",
				Content: content,
				Author:  "recruiter",
			})
		}
	}
	return nil
}

func (f *fakeRemote) UpdateRating(_ context.Context, id string, rating int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ratingCalls++
	if f.failRating {
		return errRemote
	}
	for i := range f.applicants {
		if f.applicants[i].ID == id {
			f.applicants[i].Rating = rating
		}
	}
	return nil
}

func (f *fakeRemote) ToggleBookmark(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failBookmark {
		return false, errRemote
	}
	f.bookmarkState = !f.bookmarkState
	return f.bookmarkState, nil
}

func (f *fakeRemote) Reject(_ context.Context, id, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejectCalls++
	if f.failReject {
		return errRemote
	}
	f.setStage(id, model.StageRejected)
	return nil
}

func (f *fakeRemote) setStage(id string, stage model.StageID) {
	for i := range f.applicants {
		if f.applicants[i].ID == id {
			f.applicants[i].Stage = stage
		}
	}
}

func newTestController(t *testing.T, applicants ...model.Applicant) (*Controller, *fakeRemote) {
	t.Helper()

	remote := &fakeRemote{applicants: applicants}
	c := NewController(remote)
	c.SetLogf(func(string, ...interface{}) {})
	if err := c.Reload(context.Background()); err != nil {
		t.Fatalf("initial reload: %v", err)
	}
	return c, remote
}

func TestReloadAppliesFilterParams(t *testing.T) {
	c, remote := newTestController(t, applicant("a1", model.StageApplied))

	c.SetFilter(FilterSpec{JobID: "job-1", Query: "ada"})
	if err := c.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}

	if got := remote.lastParams.Get("job"); got != "job-1" {
		t.Errorf("job param: expected job-1, got %q", got)
	}
	if got := remote.lastParams.Get("query"); got != "ada" {
		t.Errorf("query param: expected ada, got %q", got)
	}
}

func TestMoveToStageConfirmsAndReloads(t *testing.T) {
	c, remote := newTestController(t, applicant("a1", model.StageApplied))

	err := c.MoveToStage(context.Background(), "a1", model.StageScreening)
	if err != nil {
		t.Fatalf("move: %v", err)
	}

	if remote.updateStageCalls != 1 {
		t.Errorf("expected 1 stage update call, got %d", remote.updateStageCalls)
	}
	a, ok := c.Get("a1")
	if !ok || a.Stage != model.StageScreening {
		t.Errorf("expected a1 in screening, got %v", a.Stage)
	}
}

func TestMoveToStageSameStageIsNoOp(t *testing.T) {
	c, remote := newTestController(t, applicant("a1", model.StageApplied))

	err := c.MoveToStage(context.Background(), "a1", model.StageApplied)
	if err != nil {
		t.Fatalf("same-stage move should succeed: %v", err)
	}
	if remote.updateStageCalls != 0 {
		t.Errorf("same-stage move must not issue a request, got %d calls",
			remote.updateStageCalls)
	}
}

func TestMoveToStageRejectsInvalidTarget(t *testing.T) {
	c, remote := newTestController(t, applicant("a1", model.StageApplied))

	if err := c.MoveToStage(context.Background(), "a1", "archived"); err == nil {
		t.Fatal("expected error for invalid target stage")
	}
	if remote.updateStageCalls != 0 {
		t.Errorf("invalid move must not issue a request, got %d calls",
			remote.updateStageCalls)
	}
}

func TestMoveToStageRollsBackOnFailure(t *testing.T) {
	c, remote := newTestController(t, applicant("a1", model.StageApplied))
	remote.failUpdateStage = true

	err := c.MoveToStage(context.Background(), "a1", model.StageScreening)
	if err == nil {
		t.Fatal("expected error from failed move")
	}

	a, _ := c.Get("a1")
	if a.Stage != model.StageApplied {
		t.Errorf("expected rollback to applied, got %v", a.Stage)
	}
}

func TestBulkMoveEmptySelectionIsNoOp(t *testing.T) {
	c, remote := newTestController(t, applicant("a1", model.StageApplied))

	if err := c.BulkMove(context.Background(), nil, model.StageOffer); err != nil {
		t.Fatalf("empty bulk move should succeed: %v", err)
	}
	if remote.bulkCalls != 0 {
		t.Errorf("empty bulk move must not issue a request, got %d calls",
			remote.bulkCalls)
	}
}

func TestBulkMoveDeduplicatesAndClearsSelection(t *testing.T) {
	c, remote := newTestController(t,
		applicant("a1", model.StageApplied),
		applicant("a2", model.StageScreening),
	)

	c.ToggleSelect("a1")
	c.ToggleSelect("a2")

	err := c.BulkMove(
		context.Background(),
		[]string{"a1", "a2", "a1"},
		model.StageInterview,
	)
	if err != nil {
		t.Fatalf("bulk move: %v", err)
	}

	if remote.bulkCalls != 1 {
		t.Errorf("expected 1 bulk call, got %d", remote.bulkCalls)
	}
	if len(remote.bulkIDs) != 2 {
		t.Errorf("expected deduplicated ids, got %v", remote.bulkIDs)
	}
	if c.SelectionLen() != 0 {
		t.Errorf("selection should clear after a confirmed bulk move, got %d",
			c.SelectionLen())
	}
	for _, id := range []string{"a1", "a2"} {
		if a, _ := c.Get(id); a.Stage != model.StageInterview {
			t.Errorf("%s: expected interview, got %v", id, a.Stage)
		}
	}
}

func TestBulkMoveFailureKeepsSelection(t *testing.T) {
	c, remote := newTestController(t,
		applicant("a1", model.StageApplied),
		applicant("a2", model.StageApplied),
	)
	remote.failBulk = true

	c.ToggleSelect("a1")
	c.ToggleSelect("a2")

	if err := c.BulkMoveSelected(context.Background(), model.StageOffer); err == nil {
		t.Fatal("expected error from failed bulk move")
	}

	if c.SelectionLen() != 2 {
		t.Errorf("selection must survive a failed bulk move, got %d selected",
			c.SelectionLen())
	}
}

func TestAddNoteReloadsOnSuccess(t *testing.T) {
	c, _ := newTestController(t, applicant("a1", model.StageApplied))

	if err := c.AddNote(context.Background(), "a1", "  strong phone screen  "); err != nil {
		t.Fatalf("add note: %v", err)
	}

	a, _ := c.Get("a1")
	if len(a.Notes) != 1 {
		t.Fatalf("expected 1 note after reload, got %d", len(a.Notes))
	}
	if a.Notes[0].Content != "strong phone screen" {
		t.Errorf("note content should be trimmed, got %q", a.Notes[0].Content)
	}
}

func TestAddNoteRejectsEmptyContent(t *testing.T) {
	c, remote := newTestController(t, applicant("a1", model.StageApplied))

	if err := c.AddNote(context.Background(), "a1", "   "); err == nil {
		t.Fatal("expected error for empty note")
	}
	if remote.noteCalls != 0 {
		t.Errorf("empty note must not issue a request, got %d calls",
			remote.noteCalls)
	}
}

func TestUpdateRatingValidatesRange(t *testing.T) {
	c, remote := newTestController(t, applicant("a1", model.StageApplied))

	for _, rating := range []int{0, 6, -1} {
		if err := c.UpdateRating(context.Background(), "a1", rating); err == nil {
			t.Errorf("rating %d should be rejected", rating)
		}
	}
	if remote.ratingCalls != 0 {
		t.Errorf("invalid ratings must not issue requests, got %d calls",
			remote.ratingCalls)
	}
}

func TestUpdateRatingAppliesWithoutReload(t *testing.T) {
	c, remote := newTestController(t, applicant("a1", model.StageApplied))
	before := remote.listCalls

	if err := c.UpdateRating(context.Background(), "a1", 4); err != nil {
		t.Fatalf("rating: %v", err)
	}

	a, _ := c.Get("a1")
	if a.Rating != 4 {
		t.Errorf("expected rating 4, got %d", a.Rating)
	}
	if remote.listCalls != before {
		t.Errorf("rating update should not trigger a reload")
	}
}

func TestUpdateRatingRollsBackOnFailure(t *testing.T) {
	a1 := applicant("a1", model.StageApplied)
	a1.Rating = 2
	c, remote := newTestController(t, a1)
	remote.failRating = true

	if err := c.UpdateRating(context.Background(), "a1", 5); err == nil {
		t.Fatal("expected error from failed rating update")
	}

	a, _ := c.Get("a1")
	if a.Rating != 2 {
		t.Errorf("expected rollback to rating 2, got %d", a.Rating)
	}
}

func TestToggleBookmarkReconcilesWithServer(t *testing.T) {
	c, _ := newTestController(t, applicant("a1", model.StageApplied))

	if err := c.ToggleBookmark(context.Background(), "a1"); err != nil {
		t.Fatalf("bookmark: %v", err)
	}
	if a, _ := c.Get("a1"); !a.IsBookmarked {
		t.Error("expected bookmark set after toggle")
	}

	if err := c.ToggleBookmark(context.Background(), "a1"); err != nil {
		t.Fatalf("bookmark: %v", err)
	}
	if a, _ := c.Get("a1"); a.IsBookmarked {
		t.Error("expected bookmark cleared after second toggle")
	}
}

func TestToggleBookmarkRollsBackOnFailure(t *testing.T) {
	c, remote := newTestController(t, applicant("a1", model.StageApplied))
	remote.failBookmark = true

	if err := c.ToggleBookmark(context.Background(), "a1"); err == nil {
		t.Fatal("expected error from failed bookmark toggle")
	}
	if a, _ := c.Get("a1"); a.IsBookmarked {
		t.Error("expected rollback to unbookmarked")
	}
}

func TestRejectRemovesApplicantFromBoard(t *testing.T) {
	c, _ := newTestController(t,
		applicant("a1", model.StageInterview),
		applicant("a2", model.StageApplied),
	)

	if err := c.Reject(context.Background(), "a1", "position filled"); err != nil {
		t.Fatalf("reject: %v", err)
	}

	if _, ok := c.Get("a1"); ok {
		t.Error("rejected applicant should leave the collection after reload")
	}
	for _, col := range c.Columns() {
		for _, a := range col.Applicants {
			if a.ID == "a1" {
				t.Error("rejected applicant should not appear in any column")
			}
		}
	}
	if c.Total() != 1 {
		t.Errorf("expected total 1 after reject, got %d", c.Total())
	}
}

func TestRejectRequiresReason(t *testing.T) {
	c, remote := newTestController(t, applicant("a1", model.StageApplied))

	if err := c.Reject(context.Background(), "a1", "  "); err == nil {
		t.Fatal("expected error for empty reason")
	}
	if remote.rejectCalls != 0 {
		t.Errorf("empty reason must not issue a request, got %d calls",
			remote.rejectCalls)
	}
}

func TestRejectRollsBackOnFailure(t *testing.T) {
	c, remote := newTestController(t, applicant("a1", model.StageInterview))
	remote.failReject = true

	if err := c.Reject(context.Background(), "a1", "no show"); err == nil {
		t.Fatal("expected error from failed reject")
	}

	a, ok := c.Get("a1")
	if !ok || a.Stage != model.StageInterview {
		t.Errorf("expected rollback to interview, got %v", a.Stage)
	}
}

func TestMissingApplicantErrors(t *testing.T) {
	c, _ := newTestController(t, applicant("a1", model.StageApplied))

	ctx := context.Background()
	if err := c.MoveToStage(ctx, "ghost", model.StageOffer); err == nil {
		t.Error("move: expected error for unknown applicant")
	}
	if err := c.AddNote(ctx, "ghost", "hello"); err == nil {
		t.Error("note: expected error for unknown applicant")
	}
	if err := c.UpdateRating(ctx, "ghost", 3); err == nil {
		t.Error("rating: expected error for unknown applicant")
	}
	if err := c.Reject(ctx, "ghost", "reason"); err == nil {
		t.Error("reject: expected error for unknown applicant")
	}
}

// gatedRemote stalls its first list call until released, so a reload race
// can be staged deterministically.
type gatedRemote struct {
	mu      sync.Mutex
	calls   int
	started chan struct{}
	release chan struct{}
}

func (g *gatedRemote) ListApplicants(_ context.Context, _ url.Values) (*api.ListResult, error) {
	g.mu.Lock()
	g.calls++
	call := g.calls
	g.mu.Unlock()

	if call == 1 {
		close(g.started)
		<-g.release
		return &api.ListResult{
			Applicants: []model.Applicant{applicant("stale", model.StageApplied)},
			Total:      1,
		}, nil
	}
	return &api.ListResult{
		Applicants: []model.Applicant{applicant("fresh", model.StageApplied)},
		Total:      1,
	}, nil
}

func (g *gatedRemote) UpdateStage(_ context.Context, _ string, _ model.StageID) error {
	return nil
}

func (g *gatedRemote) BulkUpdateStage(_ context.Context, _ []string, _ model.StageID) error {
	return nil
}

func (g *gatedRemote) AddNote(_ context.Context, _, _ string) error { return nil }

func (g *gatedRemote) UpdateRating(_ context.Context, _ string, _ int) error { return nil }

func (g *gatedRemote) ToggleBookmark(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func (g *gatedRemote) Reject(_ context.Context, _, _ string) error { return nil }

func TestReloadDiscardsStaleResponse(t *testing.T) {
	remote := &gatedRemote{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	c := NewController(remote)
	c.SetLogf(func(string, ...interface{}) {})

	// Start a reload whose response will arrive late.
	done := make(chan error, 1)
	go func() {
		done <- c.Reload(context.Background())
	}()
	<-remote.started

	// A fresher reload completes while the first is still in flight.
	if err := c.Reload(context.Background()); err != nil {
		t.Fatalf("fresh reload: %v", err)
	}

	// Release the stale response; it must be dropped, not applied.
	close(remote.release)
	if err := <-done; err != nil {
		t.Fatalf("stale reload: %v", err)
	}

	got := c.Applicants()
	if len(got) != 1 || got[0].ID != "fresh" {
		t.Errorf("expected the fresh collection to survive, got %v", ids(got))
	}
}
