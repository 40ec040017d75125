package analytics

import (
	"slices"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// maxLatencySamples bounds the latency window used for percentiles.
const maxLatencySamples = 10000

type AggregatedStats struct {
	TotalSearches    int64       `json:"total_searches"`
	CacheHits        int64       `json:"cache_hits"`
	CacheMisses      int64       `json:"cache_misses"`
	ZeroResultCount  int64       `json:"zero_result_count"`
	UnknownWordCount int64       `json:"unknown_word_count"`
	AvgLatencyMs     float64     `json:"avg_latency_ms"`
	P50LatencyMs     int64       `json:"p50_latency_ms"`
	P95LatencyMs     int64       `json:"p95_latency_ms"`
	P99LatencyMs     int64       `json:"p99_latency_ms"`
	TopPairs         []PairCount `json:"top_pairs"`
	ZeroResultPairs  []PairCount `json:"zero_result_pairs"`
	TopUnknownWords  []PairCount `json:"top_unknown_words"`
	QueriesPerMinute float64     `json:"queries_per_minute"`
}

// PairCount is a query key ("a|b" or a single unknown word) with its tally.
type PairCount struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// Aggregator keeps in-process running totals of search events. It is the
// local counterpart of the Kafka stream and backs the analytics stats route.
type Aggregator struct {
	mu              sync.RWMutex
	totalSearches   atomic.Int64
	cacheHits       atomic.Int64
	cacheMisses     atomic.Int64
	zeroResults     atomic.Int64
	unknownWords    atomic.Int64
	latencies       []int64
	next            int
	pairCounts      map[string]int64
	zeroResultPairs map[string]int64
	unknownCounts   map[string]int64
	startTime       time.Time
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		latencies:       make([]int64, 0, 1024),
		pairCounts:      make(map[string]int64),
		zeroResultPairs: make(map[string]int64),
		unknownCounts:   make(map[string]int64),
		startTime:       time.Now(),
	}
}

// Track records one event.
func (a *Aggregator) Track(event SearchEvent) {
	a.totalSearches.Add(1)
	if event.CacheHit {
		a.cacheHits.Add(1)
	} else {
		a.cacheMisses.Add(1)
	}
	switch event.Type {
	case EventZeroResult:
		a.zeroResults.Add(1)
	case EventUnknownWord:
		a.unknownWords.Add(1)
	}

	key := event.Key()
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.latencies) < maxLatencySamples {
		a.latencies = append(a.latencies, event.LatencyMs)
	} else {
		a.latencies[a.next] = event.LatencyMs
		a.next = (a.next + 1) % maxLatencySamples
	}
	a.pairCounts[key]++
	if event.Type == EventZeroResult {
		a.zeroResultPairs[key]++
	}
	for _, w := range event.Missing {
		a.unknownCounts[w]++
	}
}

func (a *Aggregator) Stats() AggregatedStats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stats := AggregatedStats{
		TotalSearches:    a.totalSearches.Load(),
		CacheHits:        a.cacheHits.Load(),
		CacheMisses:      a.cacheMisses.Load(),
		ZeroResultCount:  a.zeroResults.Load(),
		UnknownWordCount: a.unknownWords.Load(),
	}
	if len(a.latencies) > 0 {
		sorted := slices.Clone(a.latencies)
		slices.Sort(sorted)

		var sum int64
		for _, l := range sorted {
			sum += l
		}
		stats.AvgLatencyMs = float64(sum) / float64(len(sorted))
		stats.P50LatencyMs = percentile(sorted, 50)
		stats.P95LatencyMs = percentile(sorted, 95)
		stats.P99LatencyMs = percentile(sorted, 99)
	}
	stats.TopPairs = topN(a.pairCounts, 10)
	stats.ZeroResultPairs = topN(a.zeroResultPairs, 10)
	stats.TopUnknownWords = topN(a.unknownCounts, 10)
	if elapsed := time.Since(a.startTime).Minutes(); elapsed > 0 {
		stats.QueriesPerMinute = float64(stats.TotalSearches) / elapsed
	}
	return stats
}

func percentile(sorted []int64, pct int) int64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (pct * len(sorted)) / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// topN returns the n largest counts, ties broken by key.
func topN(counts map[string]int64, n int) []PairCount {
	result := make([]PairCount, 0, len(counts))
	for query, count := range counts {
		result = append(result, PairCount{Query: query, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Query < result[j].Query
	})
	if len(result) > n {
		result = result[:n]
	}
	return result
}
