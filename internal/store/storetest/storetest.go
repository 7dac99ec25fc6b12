// Package storetest provides a conformance suite for store.Store backends.
package storetest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KilimcininKorOglu/kimlik/internal/filter"
	"github.com/KilimcininKorOglu/kimlik/internal/identity"
	"github.com/KilimcininKorOglu/kimlik/internal/logging"
	"github.com/KilimcininKorOglu/kimlik/internal/search"
	"github.com/KilimcininKorOglu/kimlik/internal/store"
)

// Factory returns an empty store. The suite closes it.
type Factory func(t *testing.T) store.Store

// Hierarchy lists the hierarchy attribute of the eight fixture users.
var Hierarchy = []string{
	"100",
	"101",
	"100.200",
	"100.201",
	"100.201.300",
	"101.200.301",
	"100.200.301.400",
	"100.200.301.400.500",
}

// Seed stores the eight fixture users in realm.
func Seed(t *testing.T, s store.Store, realm string) {
	t.Helper()
	for i, h := range Hierarchy {
		u := identity.NewUser(realm, fmt.Sprintf("user%d", i+1))
		u.SetAttribute("hierarchy", h)
		switch i {
		case 0:
			u.SetAttribute("attribute1", "value1")
		case 1:
			u.SetAttribute("attribute1", "value2")
		case 2:
			u.SetAttribute("attribute2", "value1")
		case 7:
			u.SetAttribute("attribute1", "value3")
		}
		require.NoError(t, s.Put(context.Background(), u))
	}
}

// Usernames returns the usernames of users in order.
func Usernames(users []*identity.User) []string {
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Username)
	}
	return names
}

// Run runs the conformance suite against the backend built by newStore.
func Run(t *testing.T, newStore Factory) {
	open := func(t *testing.T) store.Store {
		s := newStore(t)
		t.Cleanup(func() { _ = s.Close() })
		return s
	}

	t.Run("PutAssignsOrdinals", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		a := identity.NewUser("master", "a")
		b := identity.NewUser("master", "b")
		require.NoError(t, s.Put(ctx, a))
		require.NoError(t, s.Put(ctx, b))
		assert.Equal(t, int64(1), a.Ordinal)
		assert.Equal(t, int64(2), b.Ordinal)

		other := identity.NewUser("other", "c")
		require.NoError(t, s.Put(ctx, other))
		assert.Equal(t, int64(1), other.Ordinal)
	})

	t.Run("PutFillsID", func(t *testing.T) {
		s := open(t)
		u := &identity.User{Realm: "master", Username: "noid"}
		require.NoError(t, s.Put(context.Background(), u))
		assert.NotEmpty(t, u.ID)
	})

	t.Run("PutRejectsInvalidUser", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		assert.ErrorIs(t, s.Put(ctx, nil), store.ErrInvalidUser)
		assert.ErrorIs(t, s.Put(ctx, identity.NewUser("", "x")), store.ErrInvalidUser)
		assert.ErrorIs(t, s.Put(ctx, identity.NewUser("a/b", "x")), identity.ErrInvalidRealm)
		assert.ErrorIs(t, s.Put(ctx, identity.NewUser("master", "")), store.ErrInvalidUser)
	})

	t.Run("PutOverwritesOrdinal", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		Seed(t, s, "master")

		replacement := identity.NewUser("master", "user3-renamed")
		replacement.Ordinal = 3
		require.NoError(t, s.Put(ctx, replacement))

		users, err := s.FetchPage(ctx, "master", 2, 1)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "user3-renamed", users[0].Username)

		n, err := s.Count(ctx, "master")
		require.NoError(t, err)
		assert.Equal(t, 8, n)

		next := identity.NewUser("master", "user9")
		require.NoError(t, s.Put(ctx, next))
		assert.Equal(t, int64(9), next.Ordinal)
	})

	t.Run("FetchPageOrder", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		Seed(t, s, "master")

		users, err := s.FetchPage(ctx, "master", 0, 3)
		require.NoError(t, err)
		assert.Equal(t, []string{"user1", "user2", "user3"}, Usernames(users))

		users, err = s.FetchPage(ctx, "master", 6, 5)
		require.NoError(t, err)
		assert.Equal(t, []string{"user7", "user8"}, Usernames(users))
		assert.Equal(t, []string{"100.200.301.400.500"}, users[1].Values("hierarchy"))
		assert.Equal(t, []string{"value3"}, users[1].Values("attribute1"))
		assert.Equal(t, int64(8), users[1].Ordinal)
	})

	t.Run("FetchPageBeyondEnd", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		Seed(t, s, "master")

		users, err := s.FetchPage(ctx, "master", 8, 4)
		require.NoError(t, err)
		assert.Empty(t, users)

		users, err = s.FetchPage(ctx, "missing", 0, 4)
		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("FetchAll", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		Seed(t, s, "master")

		users, err := s.FetchAll(ctx, "master")
		require.NoError(t, err)
		assert.Len(t, users, len(Hierarchy))
		for i, u := range users {
			assert.Equal(t, []string{Hierarchy[i]}, u.Values("hierarchy"))
		}

		users, err = s.FetchAll(ctx, "missing")
		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("RealmIsolation", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		Seed(t, s, "master")
		require.NoError(t, s.Put(ctx, identity.NewUser("other", "stranger")))

		n, err := s.Count(ctx, "master")
		require.NoError(t, err)
		assert.Equal(t, 8, n)

		users, err := s.FetchAll(ctx, "other")
		require.NoError(t, err)
		assert.Equal(t, []string{"stranger"}, Usernames(users))
	})

	t.Run("ReturnedUsersAreCopies", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		Seed(t, s, "master")

		users, err := s.FetchPage(ctx, "master", 0, 1)
		require.NoError(t, err)
		users[0].SetAttribute("hierarchy", "changed")

		users, err = s.FetchPage(ctx, "master", 0, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"100"}, users[0].Values("hierarchy"))
	})

	t.Run("PagedSearch", func(t *testing.T) {
		s := open(t)
		Seed(t, s, "master")

		searcher := search.NewSearcher(search.Config{}, logging.NewNop())
		src := store.Scoped(s, "master")
		f := filter.Set{StartsWith: filter.AttributeMap{"hierarchy": {"100", "101.200"}}}

		var got []string
		cursors := []int{}
		cursor := 0
		for {
			page, err := searcher.Search(context.Background(), src, search.Request{Filter: f, Limit: 2, Cursor: cursor})
			require.NoError(t, err)
			got = append(got, Usernames(page.Users)...)
			cursors = append(cursors, page.NextCursor)
			if !page.HasMore() {
				break
			}
			cursor = page.NextCursor
		}

		assert.Equal(t, []string{"user1", "user3", "user4", "user5", "user6", "user7", "user8"}, got)
		assert.Equal(t, []int{3, 5, 7, search.EndCursor}, cursors)
	})

	t.Run("Closed", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		Seed(t, s, "master")
		require.NoError(t, s.Close())
		assert.NoError(t, s.Close())

		_, err := s.FetchPage(ctx, "master", 0, 1)
		assert.ErrorIs(t, err, store.ErrClosed)
		_, err = s.FetchAll(ctx, "master")
		assert.ErrorIs(t, err, store.ErrClosed)
		_, err = s.Count(ctx, "master")
		assert.ErrorIs(t, err, store.ErrClosed)
		assert.ErrorIs(t, s.Put(ctx, identity.NewUser("master", "late")), store.ErrClosed)
	})
}
