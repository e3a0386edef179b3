package board

// Selection tracks the applicant ids chosen for a bulk action. It is only
// mutated by direct user action and by a successful bulk move; filter
// changes, reloads, and single moves never touch it.
//
// Selection is not safe for concurrent use on its own; the Controller
// guards it with its mutex.
type Selection struct {
	members map[string]struct{}
	order   []string
}

// NewSelection returns an empty selection set.
func NewSelection() *Selection {
	return &Selection{members: make(map[string]struct{})}
}

// Toggle adds id if absent and removes it if present. Calling it twice
// with the same id restores the prior state.
func (s *Selection) Toggle(id string) {
	if _, ok := s.members[id]; ok {
		delete(s.members, id)
		for i, existing := range s.order {
			if existing == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		return
	}
	s.members[id] = struct{}{}
	s.order = append(s.order, id)
}

// Clear empties the set.
func (s *Selection) Clear() {
	s.members = make(map[string]struct{})
	s.order = nil
}

// Has reports whether id is selected.
func (s *Selection) Has(id string) bool {
	_, ok := s.members[id]
	return ok
}

// IDs returns the selected ids in the order they were toggled on.
func (s *Selection) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of selected ids.
func (s *Selection) Len() int {
	return len(s.members)
}
