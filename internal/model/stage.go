package model

// StageID identifies a step in the hiring pipeline.
type StageID string

// Pipeline stage identifiers. StageRejected is terminal and intentionally
// not part of the board catalog: rejected applicants are never shown as a
// column.
const (
	StageApplied   StageID = "applied"
	StageScreening StageID = "screening"
	StageInterview StageID = "interview"
	StageOffer     StageID = "offer"
	StageHired     StageID = "hired"
	StageRejected  StageID = "rejected"
)

// Stage is a fixed catalog entry describing one pipeline column.
// Stages are static configuration, never created or destroyed at runtime.
type Stage struct {
	ID    StageID
	Name  string
	Color string
}

// stageCatalog defines the ordered kanban columns. The sequence also
// determines the "move to next stage" default target.
var stageCatalog = []Stage{
	{ID: StageApplied, Name: "Applied", Color: "blue"},
	{ID: StageScreening, Name: "Screening", Color: "yellow"},
	{ID: StageInterview, Name: "Interview", Color: "magenta"},
	{ID: StageOffer, Name: "Offer", Color: "orange"},
	{ID: StageHired, Name: "Hired", Color: "green"},
}

// StageCatalog returns the ordered pipeline stage catalog. The returned
// slice is a copy so callers cannot reorder the catalog in place.
func StageCatalog() []Stage {
	out := make([]Stage, len(stageCatalog))
	copy(out, stageCatalog)
	return out
}

// StageByID looks up a catalog stage. The second return value is false for
// unknown ids and for StageRejected, which has no column.
func StageByID(id StageID) (Stage, bool) {
	for _, s := range stageCatalog {
		if s.ID == id {
			return s, true
		}
	}
	return Stage{}, false
}

// ValidTargetStage reports whether id is a legal target for a stage move:
// any catalog stage, or the terminal rejected value.
func ValidTargetStage(id StageID) bool {
	if id == StageRejected {
		return true
	}
	_, ok := StageByID(id)
	return ok
}

// NextStage returns the catalog stage after id, or ("", false) when id is
// the last catalog stage or not a catalog stage at all.
func NextStage(id StageID) (StageID, bool) {
	for i, s := range stageCatalog {
		if s.ID == id && i+1 < len(stageCatalog) {
			return stageCatalog[i+1].ID, true
		}
	}
	return "", false
}

// PrevStage returns the catalog stage before id, or ("", false) when id is
// the first catalog stage or not a catalog stage at all.
func PrevStage(id StageID) (StageID, bool) {
	for i, s := range stageCatalog {
		if s.ID == id && i > 0 {
			return stageCatalog[i-1].ID, true
		}
	}
	return "", false
}

// StageName returns the display name for a stage id, including the
// terminal rejected value.
func StageName(id StageID) string {
	if id == StageRejected {
		return "Rejected"
	}
	if s, ok := StageByID(id); ok {
		return s.Name
	}
	return string(id)
}
