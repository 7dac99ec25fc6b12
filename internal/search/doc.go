// Package search implements paginated attribute search over a paged user
// source.
//
// # Overview
//
// A search walks an ordered Source in batches, filters each fetched user
// through a filter.Set and stops once it holds one match more than the
// requested limit. That extra lookahead match is dropped from the page; its
// presence only signals that another page exists.
//
// # Cursors
//
// A cursor counts users consumed from the source. The page's NextCursor is
// the number of users to skip on the following call:
//
//	page, err := searcher.Search(ctx, src, search.Request{
//	    Filter: filter.Set{StartsWith: filter.AttributeMap{"hierarchy": {"100"}}},
//	    Limit:  2,
//	})
//	for err == nil && page.NextCursor != search.EndCursor {
//	    page, err = searcher.Search(ctx, src, search.Request{
//	        Filter: f, Limit: 2, Cursor: page.NextCursor,
//	    })
//	}
//
// EndCursor (-1) marks the last page. Submitting it returns an empty page
// without reading the source. Cursors below -1 are treated as 0.
//
// A limit of zero or less returns every match in a single call.
//
// # Legacy Searches
//
// SearchEquals and SearchEqualsAndStartsWith serve the older single-pass
// endpoints. They read the whole source and use the legacy predicates of the
// filter package.
package search
