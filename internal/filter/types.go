// Package filter provides attribute predicates for the kimlik user search.
package filter

// Mode selects how a record value is compared with a requested candidate.
type Mode int

const (
	// ModeEquals requires a record value equal to a candidate.
	ModeEquals Mode = iota
	// ModeStartsWith requires a record value starting with a candidate.
	ModeStartsWith
	// ModeIsPrefixOf requires a record value that is a prefix of a candidate.
	ModeIsPrefixOf
)

// String returns the string representation of the Mode.
func (m Mode) String() string {
	switch m {
	case ModeEquals:
		return "EQUALS"
	case ModeStartsWith:
		return "STARTS_WITH"
	case ModeIsPrefixOf:
		return "IS_PREFIX_OF"
	default:
		return "UNKNOWN"
	}
}

// Record is anything that exposes multi-valued string attributes.
// Values must return nil or an empty slice for a missing attribute.
type Record interface {
	Values(attribute string) []string
}

// AttributeMap maps an attribute name to its candidate values.
// Candidates of one attribute are OR-ed, attributes are AND-ed.
type AttributeMap map[string][]string

// Constrained reports whether at least one attribute has candidates.
func (m AttributeMap) Constrained() bool {
	for _, candidates := range m {
		if len(candidates) > 0 {
			return true
		}
	}
	return false
}

// Set is the conjunction of the three match modes.
// A nil or empty map imposes no constraint.
type Set struct {
	Equals     AttributeMap
	StartsWith AttributeMap
	IsPrefixOf AttributeMap
}

// IsEmpty reports whether the set matches every record.
func (s *Set) IsEmpty() bool {
	if s == nil {
		return true
	}
	return !s.Equals.Constrained() && !s.StartsWith.Constrained() && !s.IsPrefixOf.Constrained()
}

// Predicate decides whether a record is part of a result.
type Predicate func(rec Record) bool

// MatchAll is the predicate of an unconstrained search.
func MatchAll(Record) bool { return true }

// MatchNone rejects every record.
func MatchNone(Record) bool { return false }
