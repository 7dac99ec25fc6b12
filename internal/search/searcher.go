package search

import (
	"context"
	"math"
	"time"

	"github.com/KilimcininKorOglu/kimlik/internal/filter"
	"github.com/KilimcininKorOglu/kimlik/internal/identity"
	"github.com/KilimcininKorOglu/kimlik/internal/logging"
	"github.com/KilimcininKorOglu/kimlik/internal/metrics"
)

// Search kinds used as metric labels.
const (
	KindPaged            = "paged"
	KindLegacyEquals     = "legacy_equals"
	KindLegacyAttributes = "legacy_attributes"
)

// Request is a paginated attribute search.
type Request struct {
	Filter filter.Set
	// Limit is the page size. Zero or less returns every match.
	Limit int
	// Cursor is the NextCursor of the previous page, 0 for the first page.
	Cursor int
}

// Config holds searcher settings.
type Config struct {
	// MaxLimit caps positive page sizes. Zero disables the cap.
	MaxLimit int
}

// Searcher runs attribute searches against a Source.
// It holds no per-search state and is safe for concurrent use.
type Searcher struct {
	config Config
	logger logging.Logger
}

// NewSearcher creates a new Searcher.
func NewSearcher(cfg Config, logger logging.Logger) *Searcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Searcher{
		config: cfg,
		logger: logger.WithSource("search"),
	}
}

// Search returns the page of users matching req.Filter that starts at
// req.Cursor. Source errors are returned unchanged.
func (s *Searcher) Search(ctx context.Context, src Source, req Request) (*Page, error) {
	start := time.Now()
	log := logging.FromContext(ctx, s.logger)

	if req.Cursor == EndCursor {
		s.observe(KindPaged, stateSentinel, 0, 0, start)
		log.Debug("search skipped", "cursor", req.Cursor)
		return emptyPage(), nil
	}

	limit := s.clampLimit(req.Limit)
	pred := req.Filter.Predicate()

	if limit <= 0 {
		page, fetched, err := s.scanAll(ctx, src, pred, normalizeCursor(req.Cursor))
		if err != nil {
			metrics.SearchErrors.WithLabelValues(KindPaged).Inc()
			return nil, err
		}
		s.observe(KindPaged, stateExhausted, fetched, len(page.Users), start)
		log.Debug("search finished",
			"limit", req.Limit,
			"cursor", req.Cursor,
			"fetched", fetched,
			"matches", len(page.Users),
		)
		return page, nil
	}

	sc := newScan(pred, limit, req.Cursor)
	for !sc.done() {
		if err := ctx.Err(); err != nil {
			metrics.SearchErrors.WithLabelValues(KindPaged).Inc()
			return nil, err
		}
		batch, err := src.FetchPage(ctx, sc.offset, sc.want())
		if err != nil {
			metrics.SearchErrors.WithLabelValues(KindPaged).Inc()
			log.Warn("search aborted", "offset", sc.offset, "error", err)
			return nil, err
		}
		sc.feed(batch)
	}

	page := sc.page()
	s.observe(KindPaged, sc.state, sc.fetched, len(page.Users), start)
	log.Debug("search finished",
		"equals", len(req.Filter.Equals),
		"starts_with", len(req.Filter.StartsWith),
		"is_prefix_of", len(req.Filter.IsPrefixOf),
		"limit", limit,
		"cursor", req.Cursor,
		"batches", sc.batches,
		"fetched", sc.fetched,
		"matches", len(page.Users),
		"next_cursor", page.NextCursor,
	)
	return page, nil
}

// SearchEquals returns every user whose first value of each requested
// attribute equals the requested value. An empty request matches nothing.
func (s *Searcher) SearchEquals(ctx context.Context, src Source, attrs map[string]string) ([]*identity.User, error) {
	return s.filterAll(ctx, src, KindLegacyEquals, filter.LegacyEquals(attrs))
}

// SearchEqualsAndStartsWith combines the legacy equality search with the
// legacy starts-with search, in which a user value must be a prefix of a
// requested value. Without equality attributes only the starts-with search
// applies, and without starts-with attributes only the equality search
// applies. A request with neither matches nothing.
func (s *Searcher) SearchEqualsAndStartsWith(ctx context.Context, src Source, equals map[string]string, startsWith filter.AttributeMap) ([]*identity.User, error) {
	var pred filter.Predicate
	switch {
	case len(equals) == 0:
		pred = filter.LegacyInvertedStartsWith(startsWith)
	case len(startsWith) == 0:
		pred = filter.LegacyEquals(equals)
	default:
		pred = filter.And(filter.LegacyEquals(equals), filter.LegacyInvertedStartsWith(startsWith))
	}
	return s.filterAll(ctx, src, KindLegacyAttributes, pred)
}

func (s *Searcher) filterAll(ctx context.Context, src Source, kind string, pred filter.Predicate) ([]*identity.User, error) {
	start := time.Now()
	page, fetched, err := s.scanAll(ctx, src, pred, 0)
	if err != nil {
		metrics.SearchErrors.WithLabelValues(kind).Inc()
		return nil, err
	}
	s.observe(kind, stateExhausted, fetched, len(page.Users), start)
	logging.FromContext(ctx, s.logger).Debug("legacy search finished",
		"kind", kind,
		"fetched", fetched,
		"matches", len(page.Users),
	)
	return page.Users, nil
}

// scanAll reads the whole source in one pass, skips the first skip users
// and keeps those accepted by pred.
func (s *Searcher) scanAll(ctx context.Context, src Source, pred filter.Predicate, skip int) (*Page, int, error) {
	users, err := src.FetchAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	if skip >= len(users) {
		return emptyPage(), 0, nil
	}
	users = users[skip:]

	matches := make([]*identity.User, 0)
	for _, u := range users {
		if pred(u) {
			matches = append(matches, u)
		}
	}
	return &Page{Users: matches, NextCursor: EndCursor}, len(users), nil
}

// maxPageLimit keeps limit+1 representable.
const maxPageLimit = math.MaxInt - 1

func (s *Searcher) clampLimit(limit int) int {
	if s.config.MaxLimit > 0 && limit > s.config.MaxLimit {
		return s.config.MaxLimit
	}
	if limit > maxPageLimit {
		return maxPageLimit
	}
	return limit
}

func (s *Searcher) observe(kind string, st state, fetched, matched int, start time.Time) {
	metrics.SearchesTotal.WithLabelValues(kind, st.String()).Inc()
	metrics.RecordsFetched.Add(float64(fetched))
	metrics.RecordsMatched.Add(float64(matched))
	metrics.SearchDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}
