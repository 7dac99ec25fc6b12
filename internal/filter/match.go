package filter

import "strings"

// matchEquals compares a record value with a candidate case-sensitively.
func matchEquals(value, candidate string) bool {
	return value == candidate
}

// matchStartsWith reports whether the record value begins with the candidate.
func matchStartsWith(value, candidate string) bool {
	return strings.HasPrefix(value, candidate)
}

// matchIsPrefixOf reports whether the record value is a prefix of the candidate.
// This is the inverse direction of matchStartsWith.
func matchIsPrefixOf(value, candidate string) bool {
	return strings.HasPrefix(candidate, value)
}

// comparator returns the value/candidate test for a mode.
func comparator(mode Mode) func(value, candidate string) bool {
	switch mode {
	case ModeEquals:
		return matchEquals
	case ModeStartsWith:
		return matchStartsWith
	case ModeIsPrefixOf:
		return matchIsPrefixOf
	default:
		return nil
	}
}

// anyMatch reports whether some record value matches some candidate.
func anyMatch(values, candidates []string, cmp func(value, candidate string) bool) bool {
	for _, v := range values {
		for _, c := range candidates {
			if cmp(v, c) {
				return true
			}
		}
	}
	return false
}
