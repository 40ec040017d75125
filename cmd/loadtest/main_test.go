package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePairs(t *testing.T) {
	pairs, err := parsePairs("cat:mat, dog:run")
	require.NoError(t, err)
	assert.Equal(t, [][2]string{{"cat", "mat"}, {"dog", "run"}}, pairs)

	_, err = parsePairs("cat")
	assert.Error(t, err)
	_, err = parsePairs("cat:")
	assert.Error(t, err)
}

func TestRunLoadTestClassifiesResponses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("a") {
		case "hit":
			w.Write([]byte(`{"missing":[],"results":[{"title":"alpha","min_distance":1}]}`))
		case "zero":
			w.Write([]byte(`{"missing":[],"results":[]}`))
		case "unknown":
			w.Write([]byte(`{"missing":["unknown"],"results":[]}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	cfg := Config{
		BaseURL:     srv.URL,
		Concurrency: 2,
		Pairs:       [][2]string{{"hit", "x"}, {"zero", "x"}, {"unknown", "x"}, {"bad", "x"}},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	stats := runLoadTest(ctx, srv.Client(), cfg)

	assert.Positive(t, stats.hits.Load())
	assert.Positive(t, stats.zeroResults.Load())
	assert.Positive(t, stats.unknownWords.Load())
	assert.Positive(t, stats.errorCount.Load())

	var out bytes.Buffer
	assert.True(t, printReport(&out, stats, time.Second))
	assert.Contains(t, out.String(), "P99:")
}

func TestPercentile(t *testing.T) {
	sorted := []time.Duration{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	assert.Equal(t, time.Duration(5), percentile(sorted, 50))
	assert.Equal(t, time.Duration(10), percentile(sorted, 99))
	assert.Equal(t, time.Duration(0), percentile(nil, 50))
	assert.False(t, printReport(&bytes.Buffer{}, &Stats{}, time.Second))
}
