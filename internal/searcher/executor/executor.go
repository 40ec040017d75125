package executor

import (
	"context"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/internal/searcher/ranker"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/pkg/metrics"
)

// DefaultLimit is the number of movies a proximity query returns, and the
// most it ever returns.
const DefaultLimit = 10

// Result types recorded in search_queries_total.
const (
	resultHit         = "hit"
	resultZero        = "zero_result"
	resultUnknownWord = "unknown_word"
)

// SearchResult is the answer to a two-word proximity query. Missing lists
// query words absent from the index; Results is empty, never nil, when no
// movie contains both words.
type SearchResult struct {
	WordA     string              `json:"word_a"`
	WordB     string              `json:"word_b"`
	Missing   []string            `json:"missing"`
	TotalHits int                 `json:"total_hits"`
	Results   []index.MovieResult `json:"results"`
}

// WordIndex is the read side of the indexer.
type WordIndex interface {
	Lookup(word string) (index.WordEntry, bool)
}

type Executor struct {
	index   WordIndex
	limit   int
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New returns an Executor answering with at most limit results. A limit
// outside [1, DefaultLimit] selects DefaultLimit. m may be nil.
func New(idx WordIndex, limit int, m *metrics.Metrics) *Executor {
	if limit <= 0 || limit > DefaultLimit {
		limit = DefaultLimit
	}
	return &Executor{
		index:   idx,
		limit:   limit,
		metrics: m,
		logger:  slog.Default().With("component", "query-executor"),
	}
}

// Limit returns the maximum number of results per query.
func (e *Executor) Limit() int {
	return e.limit
}

// SearchPair finds the movies containing both canonical words, nearest
// occurrences first.
func (e *Executor) SearchPair(ctx context.Context, wordA, wordB string) *SearchResult {
	start := time.Now()
	result := &SearchResult{
		WordA:   wordA,
		WordB:   wordB,
		Missing: []string{},
		Results: []index.MovieResult{},
	}

	entryA, okA := e.index.Lookup(wordA)
	if !okA {
		result.Missing = append(result.Missing, wordA)
	}
	entryB, okB := e.index.Lookup(wordB)
	if !okB && wordB != wordA {
		result.Missing = append(result.Missing, wordB)
	}
	if !okA || !okB {
		e.observe(start, resultUnknownWord, 0)
		logger.FromContext(ctx).Debug("query word not indexed",
			"word_a", wordA,
			"word_b", wordB,
			"missing", result.Missing,
		)
		return result
	}

	candidates := groupByTitle(entryA.Locations, entryB.Locations)
	ranked := ranker.Rank(candidates, 0)
	result.TotalHits = len(ranked)
	if len(ranked) > e.limit {
		ranked = ranked[:e.limit]
	}
	result.Results = ranked

	resultType := resultHit
	if len(ranked) == 0 {
		resultType = resultZero
	}
	e.observe(start, resultType, len(ranked))
	logger.FromContext(ctx).Debug("proximity query executed",
		"word_a", wordA,
		"word_b", wordB,
		"candidates", len(candidates),
		"total_hits", result.TotalHits,
		"returned", len(ranked),
	)
	return result
}

// groupByTitle builds one MovieResult per title seen in either posting,
// in first-seen order. Positions keep their posting order.
func groupByTitle(locsA, locsB []index.Location) []index.MovieResult {
	byTitle := make(map[string]int)
	results := make([]index.MovieResult, 0)
	slot := func(title string) *index.MovieResult {
		i, ok := byTitle[title]
		if !ok {
			i = len(results)
			byTitle[title] = i
			results = append(results, index.MovieResult{
				Title:       title,
				MinDistance: ranker.NoDistance,
			})
		}
		return &results[i]
	}
	for _, loc := range locsA {
		r := slot(loc.Title)
		r.PositionsA = append(r.PositionsA, loc.Position)
	}
	for _, loc := range locsB {
		r := slot(loc.Title)
		r.PositionsB = append(r.PositionsB, loc.Position)
	}
	return results
}

func (e *Executor) observe(start time.Time, resultType string, returned int) {
	if e.metrics == nil {
		return
	}
	e.metrics.SearchQueriesTotal.WithLabelValues(resultType).Inc()
	e.metrics.SearchLatency.Observe(time.Since(start).Seconds())
	e.metrics.SearchResultsCount.Observe(float64(returned))
}
