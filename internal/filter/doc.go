// Package filter provides attribute predicates for the kimlik user search.
//
// # Overview
//
// A search request carries up to three attribute maps, one per match mode.
// Each map goes from an attribute name to a list of candidate strings:
//
//   - Equals: a record value equals a candidate
//   - StartsWith: a record value starts with a candidate
//   - IsPrefixOf: a record value is a prefix of a candidate
//
// Within one map every attribute must match (AND), and an attribute
// matches when any of its record values matches any of its candidates (OR).
// The three maps are AND-ed together. A missing map, an empty map and an
// attribute with an empty candidate list impose no constraint.
//
// # Direction
//
// StartsWith and IsPrefixOf test the same relation from opposite sides:
//
//	value "UA0102", candidate "UA01"          StartsWith  -> true
//	value "100",    candidate "100.200.300"   IsPrefixOf  -> true
//	value "100.201.300", candidate "100.200.300" IsPrefixOf -> false
//
// # Usage
//
//	set := &filter.Set{
//	    Equals:     filter.AttributeMap{"attribute1": {"value1", "value2"}},
//	    StartsWith: filter.AttributeMap{"hierarchy": {"100", "101.200"}},
//	}
//	if set.Matches(user) {
//	    // user is part of the result
//	}
//
// # Legacy predicates
//
// LegacyEquals and LegacyInvertedStartsWith reproduce the older search
// endpoints, which return nothing when no attributes are requested.
package filter
