package search

import (
	"context"
	"errors"

	"github.com/KilimcininKorOglu/kimlik/internal/identity"
)

// hierarchyUsers returns the eight-user store used across search tests.
func hierarchyUsers() SliceSource {
	mk := func(ordinal int64, name string, attrs map[string][]string) *identity.User {
		u := identity.NewUser("test", name)
		u.Ordinal = ordinal
		for k, v := range attrs {
			u.SetAttribute(k, v...)
		}
		return u
	}
	return SliceSource{
		mk(1, "user1", map[string][]string{"attribute1": {"value1"}, "hierarchy": {"100"}}),
		mk(2, "user2", map[string][]string{"attribute1": {"value2"}, "hierarchy": {"101"}}),
		mk(3, "user3", map[string][]string{"attribute2": {"value1"}, "hierarchy": {"100.200"}}),
		mk(4, "user4", map[string][]string{"hierarchy": {"100.201"}}),
		mk(5, "user5", map[string][]string{"hierarchy": {"100.201.300"}}),
		mk(6, "user6", map[string][]string{"hierarchy": {"101.200.301"}}),
		mk(7, "user7", map[string][]string{"hierarchy": {"100.200.301.400"}}),
		mk(8, "user8", map[string][]string{"attribute1": {"value3"}, "hierarchy": {"100.200.301.400.500"}}),
	}
}

func usernames(users []*identity.User) []string {
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Username)
	}
	return names
}

// countingSource records every call made to the wrapped source.
type countingSource struct {
	Source
	pageCalls int
	allCalls  int
	counts    []int
}

func (c *countingSource) FetchPage(ctx context.Context, offset, count int) ([]*identity.User, error) {
	c.pageCalls++
	c.counts = append(c.counts, count)
	return c.Source.FetchPage(ctx, offset, count)
}

func (c *countingSource) FetchAll(ctx context.Context) ([]*identity.User, error) {
	c.allCalls++
	return c.Source.FetchAll(ctx)
}

var errUnavailable = errors.New("store unavailable")

// failingSource fails after serving failAfter successful page fetches.
type failingSource struct {
	Source
	failAfter int
	calls     int
}

func (f *failingSource) FetchPage(ctx context.Context, offset, count int) ([]*identity.User, error) {
	f.calls++
	if f.calls > f.failAfter {
		return nil, errUnavailable
	}
	return f.Source.FetchPage(ctx, offset, count)
}

func (f *failingSource) FetchAll(context.Context) ([]*identity.User, error) {
	return nil, errUnavailable
}
