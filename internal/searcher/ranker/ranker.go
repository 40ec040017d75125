// Package ranker scores movies by how close two query words appear in their
// descriptions and orders them nearest first.
package ranker

import (
	"slices"
	"sort"

	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/internal/indexer/index"
)

// NoDistance marks a movie that contains only one of the two words.
const NoDistance = -1

// MinDistance returns the smallest |a[i]-b[j]| over two ascending position
// lists, or NoDistance if either list is empty.
func MinDistance(a, b []int) int {
	if len(a) == 0 || len(b) == 0 {
		return NoDistance
	}
	best := abs(a[0] - b[0])
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		d := abs(a[i] - b[j])
		if d < best {
			best = d
		}
		switch {
		case a[i] == b[j]:
			return 0
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return best
}

// Rank computes MinDistance for every result, drops movies missing either
// word, and returns at most limit results ordered by distance then title.
// A limit of zero or less keeps everything. The returned slice is never nil.
func Rank(results []index.MovieResult, limit int) []index.MovieResult {
	ranked := make([]index.MovieResult, 0, len(results))
	for _, r := range results {
		ensureAscending(r.PositionsA)
		ensureAscending(r.PositionsB)
		r.MinDistance = MinDistance(r.PositionsA, r.PositionsB)
		if r.MinDistance == NoDistance {
			continue
		}
		ranked = append(ranked, r)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].MinDistance != ranked[j].MinDistance {
			return ranked[i].MinDistance < ranked[j].MinDistance
		}
		return ranked[i].Title < ranked[j].Title
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// ensureAscending sorts positions in place if ingestion ever handed them over
// out of order.
func ensureAscending(positions []int) {
	if !slices.IsSorted(positions) {
		slices.Sort(positions)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
