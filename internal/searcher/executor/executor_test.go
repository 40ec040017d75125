package executor

import (
	"context"
	"fmt"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/internal/indexer/normalizer"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildEngine(t *testing.T, noise []string, recs ...index.MovieRecord) *indexer.Engine {
	t.Helper()
	e, err := indexer.NewEngine(config.IndexConfig{InitialSize: 4, LoadFactorThreshold: 0.75}, normalizer.New(noise), nil)
	require.NoError(t, err)
	require.NoError(t, e.IndexAll(context.Background(), recs))
	return e
}

func titlesOf(results []index.MovieResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Title
	}
	return out
}

func TestSearchPairSingleMovie(t *testing.T) {
	e := buildEngine(t, []string{"the", "on"}, index.MovieRecord{
		Title: "alpha",
		Words: []string{"the", "cat", "sat", "on", "the", "mat"},
	})
	res := New(e, 10, nil).SearchPair(context.Background(), "cat", "mat")

	require.Len(t, res.Results, 1)
	assert.Equal(t, "alpha", res.Results[0].Title)
	assert.Equal(t, 4, res.Results[0].MinDistance)
	assert.Equal(t, []int{1}, res.Results[0].PositionsA)
	assert.Equal(t, []int{5}, res.Results[0].PositionsB)
	assert.Empty(t, res.Missing)
	assert.Equal(t, 1, res.TotalHits)
}

func TestSearchPairTwoMovies(t *testing.T) {
	e := buildEngine(t, nil,
		index.MovieRecord{Title: "movie a", Words: []string{"x", "x", "dog", "x", "x", "run", "x", "x", "x", "dog"}},
		index.MovieRecord{Title: "movie b", Words: []string{"dog", "run"}},
		index.MovieRecord{Title: "movie c", Words: []string{"dog", "dog"}},
	)
	res := New(e, 10, nil).SearchPair(context.Background(), "dog", "run")

	require.Len(t, res.Results, 2)
	assert.Equal(t, []string{"movie b", "movie a"}, titlesOf(res.Results))
	assert.Equal(t, 1, res.Results[0].MinDistance)
	assert.Equal(t, 3, res.Results[1].MinDistance)
	assert.Equal(t, []int{2, 9}, res.Results[1].PositionsA)
	assert.Equal(t, []int{5}, res.Results[1].PositionsB)
}

func TestSearchPairUnknownWords(t *testing.T) {
	e := buildEngine(t, nil, index.MovieRecord{Title: "alpha", Words: []string{"cat", "mat"}})
	exec := New(e, 10, nil)

	res := exec.SearchPair(context.Background(), "dog", "bird")
	assert.NotNil(t, res.Results)
	assert.Empty(t, res.Results)
	assert.Equal(t, []string{"dog", "bird"}, res.Missing)

	res = exec.SearchPair(context.Background(), "cat", "bird")
	assert.Empty(t, res.Results)
	assert.Equal(t, []string{"bird"}, res.Missing)
}

func TestSearchPairNoSharedMovie(t *testing.T) {
	e := buildEngine(t, nil,
		index.MovieRecord{Title: "alpha", Words: []string{"cat"}},
		index.MovieRecord{Title: "beta", Words: []string{"mat"}},
	)
	res := New(e, 10, nil).SearchPair(context.Background(), "cat", "mat")
	assert.NotNil(t, res.Results)
	assert.Empty(t, res.Results)
	assert.Empty(t, res.Missing)
	assert.Equal(t, 0, res.TotalHits)
}

func TestSearchPairSameWord(t *testing.T) {
	e := buildEngine(t, nil, index.MovieRecord{Title: "alpha", Words: []string{"cat", "x", "cat"}})
	res := New(e, 10, nil).SearchPair(context.Background(), "cat", "cat")
	require.Len(t, res.Results, 1)
	assert.Equal(t, 0, res.Results[0].MinDistance)

	res = New(e, 10, nil).SearchPair(context.Background(), "dog", "dog")
	assert.Equal(t, []string{"dog"}, res.Missing)
}

func TestSearchPairCapsResults(t *testing.T) {
	var recs []index.MovieRecord
	for i := 0; i < 25; i++ {
		words := make([]string, 0, i+2)
		words = append(words, "start")
		for j := 0; j < i%7; j++ {
			words = append(words, "filler")
		}
		words = append(words, "end")
		recs = append(recs, index.MovieRecord{Title: fmt.Sprintf("movie %02d", i), Words: words})
	}
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	exec := New(buildEngine(t, nil, recs...), 0, m)
	assert.Equal(t, DefaultLimit, exec.Limit())

	res := exec.SearchPair(context.Background(), "start", "end")
	require.Len(t, res.Results, 10)
	assert.Equal(t, 25, res.TotalHits)
	for i := 1; i < len(res.Results); i++ {
		assert.LessOrEqual(t, res.Results[i-1].MinDistance, res.Results[i].MinDistance)
	}
	assert.Equal(t, []string{"movie 00", "movie 07", "movie 14", "movie 21"}, titlesOf(res.Results[:4]))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchQueriesTotal.WithLabelValues("hit")))

	exec.SearchPair(context.Background(), "start", "nowhere")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchQueriesTotal.WithLabelValues("unknown_word")))
}

func TestNewClampsLimit(t *testing.T) {
	var recs []index.MovieRecord
	for i := 0; i < 25; i++ {
		recs = append(recs, index.MovieRecord{
			Title: fmt.Sprintf("movie %02d", i),
			Words: []string{"start", "end"},
		})
	}
	e := buildEngine(t, nil, recs...)

	for _, limit := range []int{-3, 0, 11, 25, 1000} {
		exec := New(e, limit, nil)
		assert.Equal(t, DefaultLimit, exec.Limit(), "limit %d", limit)
		res := exec.SearchPair(context.Background(), "start", "end")
		assert.Len(t, res.Results, DefaultLimit, "limit %d", limit)
		assert.Equal(t, 25, res.TotalHits)
	}

	res := New(e, 3, nil).SearchPair(context.Background(), "start", "end")
	assert.Equal(t, []string{"movie 00", "movie 01", "movie 02"}, titlesOf(res.Results))
}

func TestGroupByTitleKeepsPostingOrder(t *testing.T) {
	got := groupByTitle(
		[]index.Location{{Title: "b", Position: 1}, {Title: "a", Position: 0}, {Title: "b", Position: 7}},
		[]index.Location{{Title: "c", Position: 2}, {Title: "b", Position: 3}},
	)
	require.Len(t, got, 3)
	assert.Equal(t, "b", got[0].Title)
	assert.Equal(t, []int{1, 7}, got[0].PositionsA)
	assert.Equal(t, []int{3}, got[0].PositionsB)
	assert.Equal(t, "a", got[1].Title)
	assert.Nil(t, got[1].PositionsB)
	assert.Equal(t, "c", got[2].Title)
	assert.Nil(t, got[2].PositionsA)
}
