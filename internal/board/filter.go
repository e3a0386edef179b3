package board

import (
	"net/url"
	"strings"

	"github.com/nhle/applicant-board/internal/model"
)

// FilterSpec is the transient query state for the board. The server
// performs the actual filtering; the client only translates the spec into
// list-request parameters.
type FilterSpec struct {
	JobID  string
	Stage  model.StageID
	Source model.Source
	Query  string
}

// Params produces the query parameters for the applicant list endpoint.
// Empty or absent fields are omitted.
func (f FilterSpec) Params() url.Values {
	params := url.Values{}
	if f.JobID != "" {
		params.Set("job", f.JobID)
	}
	if f.Stage != "" {
		params.Set("stage", string(f.Stage))
	}
	if f.Source != "" {
		params.Set("source", string(f.Source))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		params.Set("query", q)
	}
	return params
}

// IsZero reports whether no filter field is set.
func (f FilterSpec) IsZero() bool {
	return f.JobID == "" && f.Stage == "" && f.Source == "" &&
		strings.TrimSpace(f.Query) == ""
}

// Summary returns a short human-readable description of the active filter
// for the status bar, or "" when the filter is empty.
func (f FilterSpec) Summary() string {
	var parts []string
	if f.JobID != "" {
		parts = append(parts, "job:"+f.JobID)
	}
	if f.Stage != "" {
		parts = append(parts, "stage:"+string(f.Stage))
	}
	if f.Source != "" {
		parts = append(parts, "source:"+string(f.Source))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		parts = append(parts, "\""+q+"\"")
	}
	return strings.Join(parts, " ")
}
