// Command loadtest drives /api/v1/search with word-pair queries and reports
// latency percentiles and the hit/zero-result mix.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

type Config struct {
	BaseURL     string
	Concurrency int
	Duration    time.Duration
	Pairs       [][2]string
}

type Stats struct {
	totalRequests atomic.Int64
	errorCount    atomic.Int64
	hits          atomic.Int64
	zeroResults   atomic.Int64
	unknownWords  atomic.Int64
	latenciesMu   sync.Mutex
	latencies     []time.Duration
}

type searchResponse struct {
	Missing []string          `json:"missing"`
	Results []json.RawMessage `json:"results"`
}

func (s *Stats) record(d time.Duration, resp *searchResponse, err error) {
	s.totalRequests.Add(1)
	if err != nil {
		s.errorCount.Add(1)
		return
	}
	switch {
	case len(resp.Missing) > 0:
		s.unknownWords.Add(1)
	case len(resp.Results) == 0:
		s.zeroResults.Add(1)
	default:
		s.hits.Add(1)
	}
	s.latenciesMu.Lock()
	s.latencies = append(s.latencies, d)
	s.latenciesMu.Unlock()
}

var defaultPairs = [][2]string{
	{"love", "war"},
	{"space", "alien"},
	{"detective", "murder"},
	{"family", "secret"},
	{"ship", "ocean"},
	{"robot", "future"},
	{"king", "kingdom"},
	{"heist", "bank"},
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "base URL of the search service")
	concurrency := flag.Int("concurrency", 10, "number of concurrent workers")
	duration := flag.Duration("duration", 30*time.Second, "test duration")
	pairs := flag.String("pairs", "", "comma-separated word pairs, e.g. 'cat:mat,dog:run'")
	flag.Parse()

	cfg := Config{
		BaseURL:     strings.TrimRight(*baseURL, "/"),
		Concurrency: *concurrency,
		Duration:    *duration,
		Pairs:       defaultPairs,
	}
	if *pairs != "" {
		parsed, err := parsePairs(*pairs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "loadtest: %v\n", err)
			os.Exit(2)
		}
		cfg.Pairs = parsed
	}

	fmt.Println("=== Movie Search Load Test ===")
	fmt.Printf("Target:      %s\n", cfg.BaseURL)
	fmt.Printf("Concurrency: %d\n", cfg.Concurrency)
	fmt.Printf("Duration:    %s\n", cfg.Duration)
	fmt.Printf("Pairs:       %d unique\n\n", len(cfg.Pairs))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Duration)
	defer cancel()
	stats := runLoadTest(ctx, newClient(cfg.Concurrency), cfg)
	if !printReport(os.Stdout, stats, cfg.Duration) {
		fmt.Println("WARNING: No requests completed. Is the service running?")
		os.Exit(1)
	}
}

func parsePairs(s string) ([][2]string, error) {
	var out [][2]string
	for _, item := range strings.Split(s, ",") {
		a, b, ok := strings.Cut(strings.TrimSpace(item), ":")
		if !ok || a == "" || b == "" {
			return nil, fmt.Errorf("bad pair %q, want word:word", item)
		}
		out = append(out, [2]string{a, b})
	}
	return out, nil
}

func newClient(concurrency int) *http.Client {
	return &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        concurrency * 2,
			MaxIdleConnsPerHost: concurrency * 2,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// runLoadTest keeps Concurrency workers busy until ctx is done.
func runLoadTest(ctx context.Context, client *http.Client, cfg Config) *Stats {
	stats := &Stats{latencies: make([]time.Duration, 0, 10000)}
	var g errgroup.Group
	for w := 0; w < cfg.Concurrency; w++ {
		g.Go(func() error {
			for i := w; ctx.Err() == nil; i++ {
				pair := cfg.Pairs[i%len(cfg.Pairs)]
				start := time.Now()
				resp, err := search(ctx, client, cfg.BaseURL, pair)
				if ctx.Err() != nil {
					return nil
				}
				stats.record(time.Since(start), resp, err)
			}
			return nil
		})
	}
	g.Wait()
	return stats
}

func search(ctx context.Context, client *http.Client, baseURL string, pair [2]string) (*searchResponse, error) {
	q := url.Values{"a": {pair[0]}, "b": {pair[1]}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/v1/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &body, nil
}

// printReport reports false when no request completed.
func printReport(w io.Writer, stats *Stats, duration time.Duration) bool {
	total := stats.totalRequests.Load()
	fmt.Fprintln(w, "=== Results ===")
	fmt.Fprintf(w, "Total Requests:  %d\n", total)
	fmt.Fprintf(w, "Errors:          %d\n", stats.errorCount.Load())
	fmt.Fprintf(w, "Hits:            %d\n", stats.hits.Load())
	fmt.Fprintf(w, "Zero results:    %d\n", stats.zeroResults.Load())
	fmt.Fprintf(w, "Unknown words:   %d\n", stats.unknownWords.Load())
	if total == 0 {
		return false
	}
	fmt.Fprintf(w, "Requests/sec:    %.2f\n", float64(total)/duration.Seconds())

	stats.latenciesMu.Lock()
	latencies := slices.Clone(stats.latencies)
	stats.latenciesMu.Unlock()
	if len(latencies) > 0 {
		slices.Sort(latencies)
		fmt.Fprintln(w, "\n=== Latency ===")
		fmt.Fprintf(w, "Min:    %s\n", latencies[0])
		fmt.Fprintf(w, "P50:    %s\n", percentile(latencies, 50))
		fmt.Fprintf(w, "P95:    %s\n", percentile(latencies, 95))
		fmt.Fprintf(w, "P99:    %s\n", percentile(latencies, 99))
		fmt.Fprintf(w, "Max:    %s\n", latencies[len(latencies)-1])
	}
	return true
}

func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p*len(sorted)+99)/100 - 1
	return sorted[max(0, min(idx, len(sorted)-1))]
}
