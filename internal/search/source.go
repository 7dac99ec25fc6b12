package search

import (
	"context"

	"github.com/KilimcininKorOglu/kimlik/internal/identity"
)

// Source is an ordered, paged collection of users.
type Source interface {
	// FetchPage returns up to count users starting at offset. A short or
	// empty result means the source is exhausted.
	FetchPage(ctx context.Context, offset, count int) ([]*identity.User, error)
	// FetchAll returns every user in order.
	FetchAll(ctx context.Context) ([]*identity.User, error)
}

// SliceSource serves users from an in-memory slice.
type SliceSource []*identity.User

// FetchPage returns a window of the slice.
func (s SliceSource) FetchPage(_ context.Context, offset, count int) ([]*identity.User, error) {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(s) || count <= 0 {
		return nil, nil
	}
	return s[offset : offset+min(count, len(s)-offset)], nil
}

// FetchAll returns the whole slice.
func (s SliceSource) FetchAll(context.Context) ([]*identity.User, error) {
	return s, nil
}
