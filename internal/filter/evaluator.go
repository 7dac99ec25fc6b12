package filter

// MatchMode tests whether a record satisfies attrs under the given mode.
// Every attribute with a non-empty candidate list must have at least one
// record value matching one of its candidates. Attributes with no
// candidates and empty maps are vacuously satisfied.
func MatchMode(mode Mode, rec Record, attrs AttributeMap) bool {
	cmp := comparator(mode)
	if cmp == nil {
		return false
	}

	for name, candidates := range attrs {
		if len(candidates) == 0 {
			continue
		}
		if !anyMatch(rec.Values(name), candidates, cmp) {
			return false
		}
	}
	return true
}

// Matches tests a record against all three modes.
func (s *Set) Matches(rec Record) bool {
	if s == nil {
		return true
	}
	if rec == nil {
		return false
	}

	return MatchMode(ModeEquals, rec, s.Equals) &&
		MatchMode(ModeStartsWith, rec, s.StartsWith) &&
		MatchMode(ModeIsPrefixOf, rec, s.IsPrefixOf)
}

// Predicate returns the set as a Predicate. An empty set yields MatchAll.
func (s *Set) Predicate() Predicate {
	if s.IsEmpty() {
		return MatchAll
	}
	return s.Matches
}
