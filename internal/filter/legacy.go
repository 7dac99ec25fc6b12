package filter

// LegacyEquals builds the predicate of the single-valued attribute search.
// Each requested attribute's first record value must equal the requested
// value. A nil or empty map matches nothing.
func LegacyEquals(attrs map[string]string) Predicate {
	if len(attrs) == 0 {
		return MatchNone
	}

	return func(rec Record) bool {
		if rec == nil {
			return false
		}
		for name, want := range attrs {
			values := rec.Values(name)
			if len(values) == 0 || values[0] != want {
				return false
			}
		}
		return true
	}
}

// LegacyInvertedStartsWith builds the predicate of the older starts-with
// search, where a record value must be a prefix of a requested value.
// A nil or empty map matches nothing, and an attribute with no requested
// values rejects every record.
func LegacyInvertedStartsWith(attrs AttributeMap) Predicate {
	if len(attrs) == 0 {
		return MatchNone
	}

	return func(rec Record) bool {
		if rec == nil {
			return false
		}
		for name, candidates := range attrs {
			if !anyMatch(rec.Values(name), candidates, matchIsPrefixOf) {
				return false
			}
		}
		return true
	}
}

// And combines predicates. A nil predicate is skipped.
func And(preds ...Predicate) Predicate {
	return func(rec Record) bool {
		for _, p := range preds {
			if p != nil && !p(rec) {
				return false
			}
		}
		return true
	}
}
