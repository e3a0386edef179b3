package board

import (
	"testing"

	"github.com/nhle/applicant-board/internal/model"
)

func TestFilterParamsOmitsEmptyFields(t *testing.T) {
	f := FilterSpec{JobID: "job-1", Query: "  ada  "}

	params := f.Params()

	if got := params.Get("job"); got != "job-1" {
		t.Errorf("job: expected job-1, got %q", got)
	}
	if got := params.Get("query"); got != "ada" {
		t.Errorf("query: expected trimmed value, got %q", got)
	}
	if _, ok := params["stage"]; ok {
		t.Error("stage should be omitted when unset")
	}
	if _, ok := params["source"]; ok {
		t.Error("source should be omitted when unset")
	}
}

func TestFilterParamsEmptySpec(t *testing.T) {
	params := FilterSpec{}.Params()
	if len(params) != 0 {
		t.Errorf("expected no params, got %v", params)
	}

	// Whitespace-only query counts as unset.
	params = FilterSpec{Query: "   "}.Params()
	if len(params) != 0 {
		t.Errorf("expected no params for blank query, got %v", params)
	}
}

func TestFilterIsZero(t *testing.T) {
	if !(FilterSpec{}).IsZero() {
		t.Error("empty spec should be zero")
	}
	if !(FilterSpec{Query: "  "}).IsZero() {
		t.Error("blank query should still be zero")
	}
	if (FilterSpec{Stage: model.StageOffer}).IsZero() {
		t.Error("spec with stage should not be zero")
	}
}

func TestFilterSummary(t *testing.T) {
	if got := (FilterSpec{}).Summary(); got != "" {
		t.Errorf("empty spec summary: expected \"\", got %q", got)
	}

	f := FilterSpec{
		JobID:  "job-1",
		Source: model.SourceReferral,
		Query:  "ada",
	}
	got := f.Summary()
	want := `job:job-1 source:referral "ada"`
	if got != want {
		t.Errorf("summary: expected %q, got %q", want, got)
	}
}
