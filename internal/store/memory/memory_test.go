package memory

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KilimcininKorOglu/kimlik/internal/identity"
	"github.com/KilimcininKorOglu/kimlik/internal/store"
	"github.com/KilimcininKorOglu/kimlik/internal/store/storetest"
)

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return New() })
}

func TestPutStoresCopy(t *testing.T) {
	s := New()
	u := identity.NewUser("master", "alice")
	u.SetAttribute("hierarchy", "100")
	require.NoError(t, s.Put(context.Background(), u))

	u.SetAttribute("hierarchy", "999")

	users, err := s.FetchAll(context.Background(), "master")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, []string{"100"}, users[0].Values("hierarchy"))
}

func TestClosedStore(t *testing.T) {
	s := New()
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Put(context.Background(), identity.NewUser("master", "a")), store.ErrClosed)
	_, err := s.Count(context.Background(), "master")
	assert.ErrorIs(t, err, store.ErrClosed)
}

func TestFetchPageHugeCount(t *testing.T) {
	s := New()
	storetest.Seed(t, s, "master")

	users, err := s.FetchPage(context.Background(), "master", 6, math.MaxInt)
	require.NoError(t, err)
	assert.Equal(t, []string{"user7", "user8"}, storetest.Usernames(users))
}
