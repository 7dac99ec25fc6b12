package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KilimcininKorOglu/kimlik/internal/filter"
	"github.com/KilimcininKorOglu/kimlik/internal/identity"
)

func katottgUsers() SliceSource {
	u1 := identity.NewUser("test", "u1")
	u1.SetAttribute("key1", "value1")

	u2 := identity.NewUser("test", "u2")
	u2.SetAttribute("key1", "value1")
	u2.SetAttribute("KATOTTG", "UA0102")

	u3 := identity.NewUser("test", "u3")
	u3.SetAttribute("KATOTTG", "UA0102")

	return SliceSource{u1, u2, u3}
}

func TestSearchEqualsRequiresAllAttributes(t *testing.T) {
	s := newTestSearcher()
	u := identity.NewUser("test", "only-key1")
	u.SetAttribute("key1", "value1")

	users, err := s.SearchEquals(context.Background(), SliceSource{u},
		map[string]string{"key1": "value1", "key2": "value2"})
	require.NoError(t, err)
	assert.Empty(t, users)

	u.SetAttribute("key2", "value2")
	users, err = s.SearchEquals(context.Background(), SliceSource{u},
		map[string]string{"key1": "value1", "key2": "value2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"only-key1"}, usernames(users))
}

func TestSearchEqualsEmptyRequest(t *testing.T) {
	s := newTestSearcher()
	users, err := s.SearchEquals(context.Background(), hierarchyUsers(), nil)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestSearchEqualsAndStartsWith(t *testing.T) {
	tests := []struct {
		name       string
		equals     map[string]string
		startsWith filter.AttributeMap
		expected   []string
	}{
		{
			name:       "both empty",
			equals:     map[string]string{},
			startsWith: filter.AttributeMap{},
			expected:   []string{},
		},
		{
			name:       "starts with only",
			startsWith: filter.AttributeMap{"KATOTTG": {"UA0102030405"}},
			expected:   []string{"u2", "u3"},
		},
		{
			name:     "equals only",
			equals:   map[string]string{"key1": "value1"},
			expected: []string{"u1", "u2"},
		},
		{
			name:       "both",
			equals:     map[string]string{"key1": "value1"},
			startsWith: filter.AttributeMap{"KATOTTG": {"UA0102030405"}},
			expected:   []string{"u2"},
		},
	}

	s := newTestSearcher()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, err := s.SearchEqualsAndStartsWith(context.Background(), katottgUsers(), tt.equals, tt.startsWith)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, usernames(users))
		})
	}
}
