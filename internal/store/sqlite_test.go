package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/nhle/applicant-board/internal/model"
	"github.com/nhle/applicant-board/internal/store"
	"github.com/nhle/applicant-board/tests/testutil"
)

func testApplicant(id, name string, stage model.StageID) model.Applicant {
	return model.Applicant{
		ID:             id,
		Name:           name,
		Email:          name + "@example.com",
		Headline:       "Engineer",
		Job:            model.JobRef{ID: "job-1", Title: "Backend Engineer"},
		Stage:          stage,
		Source:         model.SourceReferral,
		Rating:         3,
		AppliedAt:      time.Now().Add(-48 * time.Hour),
		LastActivityAt: time.Now(),
	}
}

func TestUpsertAndGetApplicants(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	a1 := testApplicant("a1", "Ada", model.StageApplied)
	a1.Tags = []string{"golang", "remote"}
	a2 := testApplicant("a2", "Grace", model.StageInterview)

	if err := s.UpsertApplicants(ctx, []model.Applicant{a1, a2}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.GetApplicants(ctx, store.SnapshotFilter{})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 applicants, got %d", len(got))
	}

	// The full record round-trips through the JSON blob.
	byID, err := s.GetApplicantByID(ctx, "a1")
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.Email != "ada@example.com" {
		t.Errorf("expected email to round-trip, got %q", byID.Email)
	}
	if len(byID.Tags) != 2 {
		t.Errorf("expected tags to round-trip, got %v", byID.Tags)
	}
}

func TestUpsertReplacesExisting(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	a := testApplicant("a1", "Ada", model.StageApplied)
	if err := s.UpsertApplicants(ctx, []model.Applicant{a}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	a.Stage = model.StageOffer
	a.Rating = 5
	if err := s.UpsertApplicants(ctx, []model.Applicant{a}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := s.GetApplicantByID(ctx, "a1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Stage != model.StageOffer || got.Rating != 5 {
		t.Errorf("expected updated snapshot, got stage=%s rating=%d",
			got.Stage, got.Rating)
	}
}

func TestGetApplicantsFilters(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	a1 := testApplicant("a1", "Ada Lovelace", model.StageApplied)
	a2 := testApplicant("a2", "Grace Hopper", model.StageInterview)
	a2.Job = model.JobRef{ID: "job-2", Title: "Data Engineer"}
	a2.Source = model.SourceLinkedIn

	if err := s.UpsertApplicants(ctx, []model.Applicant{a1, a2}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	stage := string(model.StageInterview)
	got, err := s.GetApplicants(ctx, store.SnapshotFilter{Stage: &stage})
	if err != nil {
		t.Fatalf("stage filter: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a2" {
		t.Errorf("stage filter: expected [a2], got %d rows", len(got))
	}

	jobID := "job-1"
	got, err = s.GetApplicants(ctx, store.SnapshotFilter{JobID: &jobID})
	if err != nil {
		t.Fatalf("job filter: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a1" {
		t.Errorf("job filter: expected [a1], got %d rows", len(got))
	}

	query := "lovelace"
	got, err = s.GetApplicants(ctx, store.SnapshotFilter{Query: &query})
	if err != nil {
		t.Fatalf("query filter: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a1" {
		t.Errorf("query filter: expected [a1], got %d rows", len(got))
	}
}

func TestDeleteApplicantsNotIn(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	applicants := []model.Applicant{
		testApplicant("a1", "Ada", model.StageApplied),
		testApplicant("a2", "Grace", model.StageApplied),
		testApplicant("a3", "Alan", model.StageApplied),
	}
	if err := s.UpsertApplicants(ctx, applicants); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := s.DeleteApplicantsNotIn(ctx, []string{"a1", "a3"}); err != nil {
		t.Fatalf("prune: %v", err)
	}

	got, err := s.GetApplicants(ctx, store.SnapshotFilter{})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 applicants after prune, got %d", len(got))
	}
	for _, a := range got {
		if a.ID == "a2" {
			t.Error("a2 should have been pruned")
		}
	}

	// Empty list clears the cache.
	if err := s.DeleteApplicantsNotIn(ctx, nil); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, _ = s.GetApplicants(ctx, store.SnapshotFilter{})
	if len(got) != 0 {
		t.Errorf("expected empty cache, got %d rows", len(got))
	}
}

func TestUpsertAndGetJobs(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	jobs := []model.Job{
		{ID: "job-2", Title: "Data Engineer", Department: "Data", Status: "open"},
		{ID: "job-1", Title: "Backend Engineer", Department: "Platform", Status: "open"},
	}
	if err := s.UpsertJobs(ctx, jobs); err != nil {
		t.Fatalf("upsert jobs: %v", err)
	}

	got, err := s.GetJobs(ctx)
	if err != nil {
		t.Fatalf("get jobs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(got))
	}
	// Ordered by title.
	if got[0].ID != "job-1" || got[1].ID != "job-2" {
		t.Errorf("expected title order [job-1 job-2], got [%s %s]",
			got[0].ID, got[1].ID)
	}
}

func TestNotificationLifecycle(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	n := model.Notification{
		ApplicantID: "a1",
		Message:     "New applicant: Ada (Backend Engineer)",
		CreatedAt:   time.Now(),
	}
	if err := s.CreateNotification(ctx, n); err != nil {
		t.Fatalf("create: %v", err)
	}

	unread, err := s.GetUnreadNotifications(ctx)
	if err != nil {
		t.Fatalf("get unread: %v", err)
	}
	if len(unread) != 1 {
		t.Fatalf("expected 1 unread notification, got %d", len(unread))
	}
	if unread[0].ID == "" {
		t.Error("expected a generated notification id")
	}

	if err := s.MarkNotificationRead(ctx, unread[0].ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	unread, _ = s.GetUnreadNotifications(ctx)
	if len(unread) != 0 {
		t.Errorf("expected no unread notifications, got %d", len(unread))
	}
}
