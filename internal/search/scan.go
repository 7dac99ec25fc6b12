package search

import (
	"github.com/KilimcininKorOglu/kimlik/internal/filter"
	"github.com/KilimcininKorOglu/kimlik/internal/identity"
)

// EndCursor marks the last page.
const EndCursor = -1

// state is the position of a scan in its lifecycle.
type state int

const (
	stateScanning state = iota
	statePageFull
	stateExhausted
	stateSentinel
)

// String returns the string representation of the state.
func (s state) String() string {
	switch s {
	case stateScanning:
		return "scanning"
	case statePageFull:
		return "page_full"
	case stateExhausted:
		return "exhausted"
	case stateSentinel:
		return "sentinel"
	default:
		return "unknown"
	}
}

// scan accumulates matches of one paginated search.
//
// Every round asks for exactly as many users as are needed to reach
// limit+1 matches, so when the page fills the lookahead match is the last
// user consumed and offset-1 points at it.
type scan struct {
	pred    filter.Predicate
	limit   int
	offset  int
	state   state
	matches []*identity.User
	fetched int
	batches int
}

// newScan starts a scan for limit > 0.
func newScan(pred filter.Predicate, limit, cursor int) *scan {
	s := &scan{
		pred:   pred,
		limit:  limit,
		offset: normalizeCursor(cursor),
		state:  stateScanning,
	}
	if cursor == EndCursor {
		s.state = stateSentinel
	}
	return s
}

// normalizeCursor maps the sentinel and any other negative cursor to 0.
func normalizeCursor(cursor int) int {
	if cursor < 0 {
		return 0
	}
	return cursor
}

// done reports whether the scan reached a terminal state.
func (s *scan) done() bool {
	return s.state != stateScanning
}

// want returns the number of users to fetch in the next round.
func (s *scan) want() int {
	return s.limit + 1 - len(s.matches)
}

// feed consumes one fetched batch. An empty batch exhausts the scan.
// Users beyond want() are ignored.
func (s *scan) feed(batch []*identity.User) {
	if s.done() {
		return
	}
	if len(batch) == 0 {
		s.state = stateExhausted
		return
	}

	if n := s.want(); len(batch) > n {
		batch = batch[:n]
	}
	s.batches++

	for _, u := range batch {
		s.offset++
		s.fetched++
		if s.pred(u) {
			s.matches = append(s.matches, u)
		}
		if len(s.matches) > s.limit {
			s.state = statePageFull
			return
		}
	}
}

// page assembles the result of a terminal scan.
func (s *scan) page() *Page {
	switch s.state {
	case statePageFull:
		return &Page{
			Users:      s.matches[:s.limit],
			NextCursor: s.offset - 1,
		}
	case stateSentinel:
		return emptyPage()
	default:
		return &Page{
			Users:      nonNil(s.matches),
			NextCursor: EndCursor,
		}
	}
}

// Page is one page of search results.
type Page struct {
	Users      []*identity.User
	NextCursor int
}

// HasMore reports whether another page may follow.
func (p *Page) HasMore() bool {
	return p.NextCursor != EndCursor
}

func emptyPage() *Page {
	return &Page{Users: []*identity.User{}, NextCursor: EndCursor}
}

func nonNil(users []*identity.User) []*identity.User {
	if users == nil {
		return []*identity.User{}
	}
	return users
}
