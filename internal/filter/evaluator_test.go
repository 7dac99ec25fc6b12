package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// testRecord is a minimal Record backed by a map.
type testRecord map[string][]string

func (r testRecord) Values(name string) []string { return r[name] }

func TestMatchModeEquals(t *testing.T) {
	rec := testRecord{
		"attribute1": {"value1"},
		"drfo":       {"11110000", "22226666"},
	}

	tests := []struct {
		name  string
		attrs AttributeMap
		want  bool
	}{
		{"nil map", nil, true},
		{"empty map", AttributeMap{}, true},
		{"key with empty candidates", AttributeMap{"attribute2": {}}, true},
		{"one of several candidates", AttributeMap{"attribute1": {"value2", "value1"}}, true},
		{"second record value", AttributeMap{"drfo": {"22226666"}}, true},
		{"all keys must match", AttributeMap{"attribute1": {"value1"}, "drfo": {"0"}}, false},
		{"missing attribute", AttributeMap{"attribute2": {"value1"}}, false},
		{"constrained and unconstrained keys", AttributeMap{"attribute1": {"value1"}, "attribute2": {}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchMode(ModeEquals, rec, tt.attrs))
		})
	}
}

func TestMatchModeStartsWithAndIsPrefixOf(t *testing.T) {
	rec := testRecord{"hierarchy": {"100"}, "KATOTTG": {"UA0402003", "UA0505001002"}}

	assert.True(t, MatchMode(ModeStartsWith, rec, AttributeMap{"hierarchy": {"10"}}))
	assert.False(t, MatchMode(ModeStartsWith, rec, AttributeMap{"hierarchy": {"100.200"}}))
	assert.True(t, MatchMode(ModeIsPrefixOf, rec, AttributeMap{"hierarchy": {"100.200.300"}}))
	assert.False(t, MatchMode(ModeIsPrefixOf, rec, AttributeMap{"hierarchy": {"10"}}))
	assert.True(t, MatchMode(ModeIsPrefixOf, rec, AttributeMap{"KATOTTG": {"UA05050010020412345"}}))
	assert.False(t, MatchMode(Mode(7), rec, AttributeMap{}))
}

func TestSetMatches(t *testing.T) {
	users := map[string]testRecord{
		"user3": {"attribute2": {"value1"}, "hierarchy": {"100.200"}},
		"user5": {"hierarchy": {"100.201.300"}},
		"user7": {"hierarchy": {"100.200.301.400"}},
		"user8": {"attribute1": {"value3"}, "hierarchy": {"100.200.301.400.500"}},
	}

	set := &Set{
		StartsWith: AttributeMap{"hierarchy": {"100.200"}},
		IsPrefixOf: AttributeMap{"hierarchy": {"100.200.301.400.500"}},
	}

	var matched []string
	for _, name := range []string{"user3", "user5", "user7", "user8"} {
		if set.Matches(users[name]) {
			matched = append(matched, name)
		}
	}
	assert.Equal(t, []string{"user3", "user7", "user8"}, matched)

	withEquals := &Set{
		Equals:     AttributeMap{"attribute1": {"value3"}},
		StartsWith: set.StartsWith,
		IsPrefixOf: set.IsPrefixOf,
	}
	assert.False(t, withEquals.Matches(users["user7"]))
	assert.True(t, withEquals.Matches(users["user8"]))
}

func TestSetEmpty(t *testing.T) {
	var nilSet *Set
	assert.True(t, nilSet.IsEmpty())
	assert.True(t, nilSet.Matches(testRecord{}))

	empty := &Set{Equals: AttributeMap{}, StartsWith: AttributeMap{"a": nil}}
	assert.True(t, empty.IsEmpty())
	assert.True(t, empty.Matches(testRecord{}))

	constrained := &Set{IsPrefixOf: AttributeMap{"a": {"x"}}}
	assert.False(t, constrained.IsEmpty())
	assert.False(t, constrained.Matches(nil))
}

func TestSetPredicate(t *testing.T) {
	rec := testRecord{"hierarchy": {"101"}}

	assert.True(t, (&Set{}).Predicate()(rec))
	assert.True(t, (&Set{StartsWith: AttributeMap{"hierarchy": {"10"}}}).Predicate()(rec))
	assert.False(t, (&Set{StartsWith: AttributeMap{"hierarchy": {"100"}}}).Predicate()(rec))
}
