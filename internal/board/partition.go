package board

import "github.com/nhle/applicant-board/internal/model"

// Column is one kanban column: a catalog stage and the applicants
// currently in it, in collection order.
type Column struct {
	Stage      model.Stage
	Applicants []model.Applicant
}

// Partition groups applicants into the fixed ordered stage catalog.
// Relative order within each column follows the input collection, the
// input is never mutated, and applicants whose stage is not in the catalog
// (rejected included) are omitted. Pure and total.
func Partition(applicants []model.Applicant, catalog []model.Stage) []Column {
	index := make(map[model.StageID]int, len(catalog))
	columns := make([]Column, len(catalog))
	for i, s := range catalog {
		index[s.ID] = i
		columns[i] = Column{Stage: s}
	}

	for _, a := range applicants {
		i, ok := index[a.Stage]
		if !ok {
			continue
		}
		columns[i].Applicants = append(columns[i].Applicants, a)
	}

	return columns
}
