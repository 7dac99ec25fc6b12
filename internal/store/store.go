package store

import (
	"context"
	"errors"

	"github.com/KilimcininKorOglu/kimlik/internal/identity"
	"github.com/KilimcininKorOglu/kimlik/internal/search"
)

// Store errors.
var (
	// ErrInvalidUser is returned when a user cannot be stored.
	ErrInvalidUser = errors.New("store: invalid user")
	// ErrClosed is returned when the store has been closed.
	ErrClosed = errors.New("store: closed")
	// ErrUnknownDriver is returned by Open for an unsupported driver name.
	ErrUnknownDriver = errors.New("store: unknown driver")
)

// Store is an ordered, realm-partitioned user store.
type Store interface {
	// Put stores a user. A zero Ordinal is replaced with the realm's next
	// ordinal; a user with an existing ordinal is overwritten.
	Put(ctx context.Context, u *identity.User) error
	// FetchPage returns up to count users of realm starting at offset, in
	// ordinal order. An offset past the end yields an empty slice.
	FetchPage(ctx context.Context, realm string, offset, count int) ([]*identity.User, error)
	// FetchAll returns every user of realm in ordinal order.
	FetchAll(ctx context.Context, realm string) ([]*identity.User, error)
	// Count returns the number of users in realm.
	Count(ctx context.Context, realm string) (int, error)
	// Close releases the store's resources.
	Close() error
}

// Prepare validates u and fills in a missing ID. Backends call it from Put.
func Prepare(u *identity.User) error {
	if u == nil {
		return ErrInvalidUser
	}
	if err := identity.ValidateRealm(u.Realm); err != nil {
		return errors.Join(ErrInvalidUser, err)
	}
	if u.Username == "" {
		return errors.Join(ErrInvalidUser, errors.New("store: username is required"))
	}
	u.EnsureID()
	return nil
}

// scoped binds a store to one realm.
type scoped struct {
	store Store
	realm string
}

// Scoped returns a search.Source over the users of one realm.
func Scoped(s Store, realm string) search.Source {
	return &scoped{store: s, realm: realm}
}

func (s *scoped) FetchPage(ctx context.Context, offset, count int) ([]*identity.User, error) {
	return s.store.FetchPage(ctx, s.realm, offset, count)
}

func (s *scoped) FetchAll(ctx context.Context) ([]*identity.User, error) {
	return s.store.FetchAll(ctx, s.realm)
}
