package search

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KilimcininKorOglu/kimlik/internal/filter"
	"github.com/KilimcininKorOglu/kimlik/internal/logging"
)

func newTestSearcher() *Searcher {
	return NewSearcher(Config{}, logging.NewNop())
}

func TestSearchEqualsAnyValue(t *testing.T) {
	s := newTestSearcher()
	page, err := s.Search(context.Background(), hierarchyUsers(), Request{
		Filter: filter.Set{Equals: filter.AttributeMap{"attribute1": {"value1", "value2"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"user1", "user2"}, usernames(page.Users))
	assert.Equal(t, EndCursor, page.NextCursor)
}

func TestSearchEmptyCandidateListIgnored(t *testing.T) {
	s := newTestSearcher()
	page, err := s.Search(context.Background(), hierarchyUsers(), Request{
		Filter: filter.Set{Equals: filter.AttributeMap{
			"attribute1": {"value3"},
			"attribute2": {},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"user8"}, usernames(page.Users))
	assert.Equal(t, EndCursor, page.NextCursor)
}

func TestSearchStartsWithUnbounded(t *testing.T) {
	s := newTestSearcher()
	page, err := s.Search(context.Background(), hierarchyUsers(), Request{
		Filter: filter.Set{StartsWith: filter.AttributeMap{"hierarchy": {"100", "101.200"}}},
	})
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"user1", "user3", "user4", "user5", "user6", "user7", "user8"},
		usernames(page.Users))
	assert.Equal(t, EndCursor, page.NextCursor)
}

func TestSearchStartsWithPaged(t *testing.T) {
	s := newTestSearcher()
	f := filter.Set{StartsWith: filter.AttributeMap{"hierarchy": {"100", "101.200"}}}

	pages := []struct {
		cursor     int
		users      []string
		nextCursor int
	}{
		{0, []string{"user1", "user3"}, 3},
		{3, []string{"user4", "user5"}, 5},
		{5, []string{"user6", "user7"}, 7},
		{7, []string{"user8"}, EndCursor},
	}

	for _, p := range pages {
		page, err := s.Search(context.Background(), hierarchyUsers(), Request{
			Filter: f,
			Limit:  2,
			Cursor: p.cursor,
		})
		require.NoError(t, err)
		assert.Equal(t, p.users, usernames(page.Users), "cursor %d", p.cursor)
		assert.Equal(t, p.nextCursor, page.NextCursor, "cursor %d", p.cursor)
	}
}

func TestSearchEmptyFilterPaged(t *testing.T) {
	s := newTestSearcher()

	page, err := s.Search(context.Background(), hierarchyUsers(), Request{
		Filter: filter.Set{Equals: filter.AttributeMap{}},
		Limit:  4,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"user1", "user2", "user3", "user4"}, usernames(page.Users))
	assert.Equal(t, 4, page.NextCursor)
	assert.True(t, page.HasMore())

	page, err = s.Search(context.Background(), hierarchyUsers(), Request{
		Filter: filter.Set{IsPrefixOf: filter.AttributeMap{}},
		Limit:  4,
		Cursor: page.NextCursor,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"user5", "user6", "user7", "user8"}, usernames(page.Users))
	assert.Equal(t, EndCursor, page.NextCursor)
	assert.False(t, page.HasMore())
}

func TestSearchSentinelCursor(t *testing.T) {
	s := newTestSearcher()
	src := &countingSource{Source: hierarchyUsers()}

	for _, limit := range []int{-5, 0, 1, 100} {
		page, err := s.Search(context.Background(), src, Request{
			Filter: filter.Set{Equals: filter.AttributeMap{"attribute1": {"value1"}}},
			Limit:  limit,
			Cursor: EndCursor,
		})
		require.NoError(t, err)
		assert.Empty(t, page.Users)
		assert.NotNil(t, page.Users)
		assert.Equal(t, EndCursor, page.NextCursor)
	}
	assert.Zero(t, src.pageCalls)
	assert.Zero(t, src.allCalls)
}

func TestSearchIsPrefixOfNegativeLimit(t *testing.T) {
	s := newTestSearcher()
	page, err := s.Search(context.Background(), hierarchyUsers(), Request{
		Filter: filter.Set{IsPrefixOf: filter.AttributeMap{"hierarchy": {"100.200", "101"}}},
		Limit:  -2123,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"user1", "user2", "user3"}, usernames(page.Users))
	assert.Equal(t, EndCursor, page.NextCursor)
}

func TestSearchStartsWithAndIsPrefixOf(t *testing.T) {
	s := newTestSearcher()
	page, err := s.Search(context.Background(), hierarchyUsers(), Request{
		Filter: filter.Set{
			StartsWith: filter.AttributeMap{"hierarchy": {"100.200"}},
			IsPrefixOf: filter.AttributeMap{"hierarchy": {"100.200.301.400.500"}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"user3", "user7", "user8"}, usernames(page.Users))
	assert.Equal(t, EndCursor, page.NextCursor)
}

func TestSearchUnboundedSkipsCursor(t *testing.T) {
	s := newTestSearcher()
	src := &countingSource{Source: hierarchyUsers()}
	page, err := s.Search(context.Background(), src, Request{Cursor: 6})
	require.NoError(t, err)
	assert.Equal(t, []string{"user7", "user8"}, usernames(page.Users))
	assert.Equal(t, EndCursor, page.NextCursor)
	assert.Equal(t, 1, src.allCalls)
	assert.Zero(t, src.pageCalls)
}

func TestSearchCursorBeyondEnd(t *testing.T) {
	s := newTestSearcher()
	for _, limit := range []int{0, 3} {
		page, err := s.Search(context.Background(), hierarchyUsers(), Request{Limit: limit, Cursor: 42})
		require.NoError(t, err)
		assert.Empty(t, page.Users)
		assert.Equal(t, EndCursor, page.NextCursor)
	}
}

func TestSearchNegativeCursorClamped(t *testing.T) {
	s := newTestSearcher()
	page, err := s.Search(context.Background(), hierarchyUsers(), Request{Limit: 2, Cursor: -5})
	require.NoError(t, err)
	assert.Equal(t, []string{"user1", "user2"}, usernames(page.Users))
	assert.Equal(t, 2, page.NextCursor)
}

func TestSearchExactlyLimitMatchesIsLastPage(t *testing.T) {
	s := newTestSearcher()
	page, err := s.Search(context.Background(), hierarchyUsers(), Request{
		Filter: filter.Set{Equals: filter.AttributeMap{"attribute1": {"value1", "value2"}}},
		Limit:  2,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"user1", "user2"}, usernames(page.Users))
	assert.Equal(t, EndCursor, page.NextCursor)
}

func TestSearchNoMatches(t *testing.T) {
	s := newTestSearcher()
	page, err := s.Search(context.Background(), hierarchyUsers(), Request{
		Filter: filter.Set{Equals: filter.AttributeMap{"attribute1": {"missing"}}},
		Limit:  3,
	})
	require.NoError(t, err)
	assert.Empty(t, page.Users)
	assert.NotNil(t, page.Users)
	assert.Equal(t, EndCursor, page.NextCursor)
}

func TestSearchFetchSizes(t *testing.T) {
	s := newTestSearcher()
	src := &countingSource{Source: hierarchyUsers()}
	_, err := s.Search(context.Background(), src, Request{
		Filter: filter.Set{StartsWith: filter.AttributeMap{"hierarchy": {"100", "101.200"}}},
		Limit:  2,
	})
	require.NoError(t, err)
	// user1, user2, user3 yield two matches, then one more user fills the lookahead.
	assert.Equal(t, []int{3, 1}, src.counts)
}

func TestSearchMaxLimit(t *testing.T) {
	s := NewSearcher(Config{MaxLimit: 3}, nil)

	page, err := s.Search(context.Background(), hierarchyUsers(), Request{Limit: 100})
	require.NoError(t, err)
	assert.Len(t, page.Users, 3)
	assert.Equal(t, 3, page.NextCursor)

	page, err = s.Search(context.Background(), hierarchyUsers(), Request{Limit: 0})
	require.NoError(t, err)
	assert.Len(t, page.Users, 8)
	assert.Equal(t, EndCursor, page.NextCursor)
}

func TestSearchHugeLimit(t *testing.T) {
	s := newTestSearcher()
	for _, limit := range []int{math.MaxInt, math.MaxInt - 1, 1 << 40} {
		page, err := s.Search(context.Background(), hierarchyUsers(), Request{Limit: limit})
		require.NoError(t, err)
		assert.Len(t, page.Users, 8, "limit %d", limit)
		assert.Equal(t, EndCursor, page.NextCursor, "limit %d", limit)
	}
}

func TestSearchSourceErrorPropagates(t *testing.T) {
	s := newTestSearcher()

	_, err := s.Search(context.Background(), &failingSource{Source: hierarchyUsers(), failAfter: 1}, Request{
		Filter: filter.Set{Equals: filter.AttributeMap{"attribute1": {"value3"}}},
		Limit:  1,
	})
	assert.ErrorIs(t, err, errUnavailable)

	_, err = s.Search(context.Background(), &failingSource{Source: hierarchyUsers()}, Request{})
	assert.ErrorIs(t, err, errUnavailable)

	_, err = s.SearchEquals(context.Background(), &failingSource{Source: hierarchyUsers()},
		map[string]string{"attribute1": "value1"})
	assert.ErrorIs(t, err, errUnavailable)
}

func TestSearchCanceledContext(t *testing.T) {
	s := newTestSearcher()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Search(ctx, hierarchyUsers(), Request{Limit: 2})
	assert.ErrorIs(t, err, context.Canceled)
}
