package ranker

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/internal/indexer/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bruteForce(a, b []int) int {
	if len(a) == 0 || len(b) == 0 {
		return NoDistance
	}
	best := -1
	for _, x := range a {
		for _, y := range b {
			if d := abs(x - y); best == -1 || d < best {
				best = d
			}
		}
	}
	return best
}

func randomAscending(rng *rand.Rand, n int) []int {
	out := make([]int, 0, n)
	next := rng.Intn(5)
	for i := 0; i < n; i++ {
		out = append(out, next)
		next += 1 + rng.Intn(8)
	}
	return out
}

func TestMinDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b []int
		want int
	}{
		{"both empty", nil, nil, NoDistance},
		{"a empty", nil, []int{3}, NoDistance},
		{"b empty", []int{3}, []int{}, NoDistance},
		{"single pair", []int{1}, []int{5}, 4},
		{"dog run", []int{2, 9}, []int{5}, 3},
		{"shared position", []int{1, 4, 8}, []int{2, 8}, 0},
		{"interleaved", []int{1, 3, 5, 11}, []int{4, 10, 12}, 1},
		{"b before a", []int{20, 30}, []int{1, 2, 3}, 17},
		{"a tail closest", []int{0, 100}, []int{98}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MinDistance(tt.a, tt.b))
			assert.Equal(t, tt.want, MinDistance(tt.b, tt.a))
		})
	}
}

func TestMinDistanceMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 2000; trial++ {
		a := randomAscending(rng, rng.Intn(21))
		b := randomAscending(rng, rng.Intn(21))
		require.Equal(t, bruteForce(a, b), MinDistance(a, b), "a=%v b=%v", a, b)
	}
}

func TestRankFiltersSortsAndTruncates(t *testing.T) {
	var results []index.MovieResult
	for i := 0; i < 15; i++ {
		results = append(results, index.MovieResult{
			Title:      fmt.Sprintf("movie-%02d", 14-i),
			PositionsA: []int{0},
			PositionsB: []int{1 + i%4},
		})
	}
	results = append(results,
		index.MovieResult{Title: "only-a", PositionsA: []int{1}},
		index.MovieResult{Title: "only-b", PositionsB: []int{1}},
	)

	ranked := Rank(results, 10)
	require.Len(t, ranked, 10)
	for i := 1; i < len(ranked); i++ {
		prev, cur := ranked[i-1], ranked[i]
		assert.LessOrEqual(t, prev.MinDistance, cur.MinDistance)
		if prev.MinDistance == cur.MinDistance {
			assert.Less(t, prev.Title, cur.Title)
		}
	}
	for _, r := range ranked {
		assert.NotEqual(t, NoDistance, r.MinDistance)
		assert.NotContains(t, []string{"only-a", "only-b"}, r.Title)
	}
	assert.Equal(t, 1, ranked[0].MinDistance)
	assert.Equal(t, "movie-02", ranked[0].Title)
}

func TestRankTieBreaksOnTitle(t *testing.T) {
	ranked := Rank([]index.MovieResult{
		{Title: "zulu", PositionsA: []int{3}, PositionsB: []int{5}},
		{Title: "alpha", PositionsA: []int{7}, PositionsB: []int{9}},
		{Title: "mike", PositionsA: []int{1}, PositionsB: []int{2}},
	}, 0)
	titles := make([]string, len(ranked))
	for i, r := range ranked {
		titles[i] = r.Title
	}
	assert.Equal(t, []string{"mike", "alpha", "zulu"}, titles)
}

func TestRankEmpty(t *testing.T) {
	ranked := Rank(nil, 10)
	assert.NotNil(t, ranked)
	assert.Empty(t, ranked)

	ranked = Rank([]index.MovieResult{{Title: "x", PositionsA: []int{1}}}, 10)
	assert.NotNil(t, ranked)
	assert.Empty(t, ranked)
}

func TestRankSortsUnorderedPositions(t *testing.T) {
	ranked := Rank([]index.MovieResult{
		{Title: "x", PositionsA: []int{40, 2}, PositionsB: []int{30, 3}},
	}, 10)
	require.Len(t, ranked, 1)
	assert.Equal(t, 1, ranked[0].MinDistance)
	assert.Equal(t, []int{2, 40}, ranked[0].PositionsA)
}

func BenchmarkMinDistance(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	a := randomAscending(rng, 500)
	c := randomAscending(rng, 500)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = MinDistance(a, c)
	}
}
