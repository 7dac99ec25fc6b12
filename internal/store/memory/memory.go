// Package memory provides an in-memory user store ordered by ordinal.
package memory

import (
	"context"
	"sync"

	"github.com/tidwall/btree"

	"github.com/KilimcininKorOglu/kimlik/internal/identity"
	"github.com/KilimcininKorOglu/kimlik/internal/store"
)

// Store keeps one btree per realm. Users are cloned on the way in and out.
type Store struct {
	mu     sync.RWMutex
	realms map[string]*realm
	closed bool
}

type realm struct {
	users *btree.BTreeG[*identity.User]
	seq   int64
}

func byOrdinal(a, b *identity.User) bool {
	return a.Ordinal < b.Ordinal
}

// New creates an empty store.
func New() *Store {
	return &Store{realms: make(map[string]*realm)}
}

// Put stores a copy of u and sets u.Ordinal when it was zero.
func (s *Store) Put(_ context.Context, u *identity.User) error {
	if err := store.Prepare(u); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return store.ErrClosed
	}

	r, ok := s.realms[u.Realm]
	if !ok {
		r = &realm{users: btree.NewBTreeG(byOrdinal)}
		s.realms[u.Realm] = r
	}

	if u.Ordinal == 0 {
		r.seq++
		u.Ordinal = r.seq
	} else if u.Ordinal > r.seq {
		r.seq = u.Ordinal
	}

	r.users.Set(u.Clone())
	return nil
}

// FetchPage returns up to count users of realmName starting at offset.
func (s *Store) FetchPage(_ context.Context, realmName string, offset, count int) ([]*identity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, store.ErrClosed
	}

	r, ok := s.realms[realmName]
	if !ok || count <= 0 || offset >= r.users.Len() {
		return []*identity.User{}, nil
	}
	if offset < 0 {
		offset = 0
	}

	users := make([]*identity.User, 0, min(count, r.users.Len()-offset))
	index := 0
	r.users.Scan(func(u *identity.User) bool {
		if index >= offset {
			users = append(users, u.Clone())
		}
		index++
		return len(users) < count
	})
	return users, nil
}

// FetchAll returns every user of realmName.
func (s *Store) FetchAll(_ context.Context, realmName string) ([]*identity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, store.ErrClosed
	}

	r, ok := s.realms[realmName]
	if !ok {
		return []*identity.User{}, nil
	}

	users := make([]*identity.User, 0, r.users.Len())
	r.users.Scan(func(u *identity.User) bool {
		users = append(users, u.Clone())
		return true
	})
	return users, nil
}

// Count returns the number of users in realmName.
func (s *Store) Count(_ context.Context, realmName string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, store.ErrClosed
	}
	if r, ok := s.realms[realmName]; ok {
		return r.users.Len(), nil
	}
	return 0, nil
}

// Close drops all data.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.realms = nil
	return nil
}

var _ store.Store = (*Store)(nil)
