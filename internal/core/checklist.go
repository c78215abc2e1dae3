package core

import "sort"

// CompletionSet records which checklist items a visitor has checked off.
type CompletionSet struct {
	ids map[string]struct{}
}

// NewCompletionSet builds a set from stored ids, dropping blanks and duplicates.
func NewCompletionSet(ids ...string) CompletionSet {
	s := CompletionSet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if id != "" {
			s.ids[id] = struct{}{}
		}
	}
	return s
}

// Has reports whether id is checked.
func (s CompletionSet) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Set marks id checked or unchecked. Repeating the same call is a no-op.
func (s *CompletionSet) Set(id string, checked bool) {
	if s.ids == nil {
		s.ids = make(map[string]struct{})
	}
	if checked {
		s.ids[id] = struct{}{}
		return
	}
	delete(s.ids, id)
}

func (s *CompletionSet) Check(id string)   { s.Set(id, true) }
func (s *CompletionSet) Uncheck(id string) { s.Set(id, false) }

// Toggle flips id and returns its new state.
func (s *CompletionSet) Toggle(id string) bool {
	checked := !s.Has(id)
	s.Set(id, checked)
	return checked
}

func (s CompletionSet) Len() int {
	return len(s.ids)
}

// IDs returns the checked ids in sorted order, the stored form of the set.
func (s CompletionSet) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Progress is the percentage of items checked, rounded half up to a whole
// number. Ids that are not part of items do not count.
func (s CompletionSet) Progress(items []ChecklistItem) int {
	if len(items) == 0 {
		return 0
	}
	done := 0
	for _, it := range items {
		if s.Has(it.ID) {
			done++
		}
	}
	return (done*200 + len(items)) / (2 * len(items))
}
