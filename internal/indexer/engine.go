// Package indexer builds the word index from movie records and serves
// read-locked lookups against it once ingestion is done.
package indexer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/internal/indexer/normalizer"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/pkg/metrics"
)

// Stats is a point-in-time view of the index for diagnostics.
type Stats struct {
	Movies        int     `json:"movies"`
	Words         int     `json:"distinct_words"`
	Locations     int64   `json:"locations"`
	RejectedWords int64   `json:"rejected_words"`
	Buckets       int     `json:"buckets"`
	LoadFactor    float64 `json:"load_factor"`
	Threshold     float64 `json:"load_factor_threshold"`
	Rehashes      int     `json:"rehashes"`
}

// Engine owns the word table. Ingestion takes the write lock per movie;
// lookups, stats and dumps share the read lock.
type Engine struct {
	mu         sync.RWMutex
	table      *index.HashTable
	normalizer *normalizer.Normalizer
	metrics    *metrics.Metrics
	logger     *slog.Logger
	movies     int
	locations  int64
	rejected   int64
}

// NewEngine creates an empty index. m may be nil.
func NewEngine(cfg config.IndexConfig, norm *normalizer.Normalizer, m *metrics.Metrics) (*Engine, error) {
	table, err := index.NewHashTable(cfg.InitialSize, cfg.LoadFactorThreshold)
	if err != nil {
		return nil, fmt.Errorf("creating word table: %w", err)
	}
	e := &Engine{
		table:      table,
		normalizer: norm,
		metrics:    m,
		logger:     slog.Default().With("component", "indexer"),
	}
	table.OnRehash(e.recordRehash)
	e.recordTableGauges()
	return e, nil
}

// IndexMovie adds every accepted word of rec to the index. Positions count
// every raw word, including the ones the normalizer rejects.
func (e *Engine) IndexMovie(rec index.MovieRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var accepted, rejected int
	for pos, raw := range rec.Words {
		word, ok := e.normalizer.Normalize(raw)
		if !ok {
			rejected++
			continue
		}
		e.table.InsertLocation(word, index.Location{Title: rec.Title, Position: pos})
		accepted++
	}
	e.movies++
	e.locations += int64(accepted)
	e.rejected += int64(rejected)

	if e.metrics != nil {
		e.metrics.MoviesIndexedTotal.Inc()
		e.metrics.LocationsTotal.Add(float64(accepted))
		e.metrics.RejectedWordsTotal.Add(float64(rejected))
	}
	e.recordTableGauges()
	e.logger.Debug("movie indexed",
		"title", rec.Title,
		"words", len(rec.Words),
		"accepted", accepted,
		"rejected", rejected,
	)
}

// IndexAll indexes recs in order. It stops between movies if ctx is done.
func (e *Engine) IndexAll(ctx context.Context, recs []index.MovieRecord) error {
	for i, rec := range recs {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("indexing stopped after %d of %d movies: %w", i, len(recs), err)
		}
		e.IndexMovie(rec)
	}
	stats := e.Stats()
	e.logger.Info("corpus indexed",
		"movies", stats.Movies,
		"distinct_words", stats.Words,
		"locations", stats.Locations,
		"buckets", stats.Buckets,
		"load_factor", stats.LoadFactor,
		"rehashes", stats.Rehashes,
	)
	return nil
}

// Lookup returns a copy of word's posting. The caller owns the returned
// location slice.
func (e *Engine) Lookup(word string) (index.WordEntry, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	entry, ok := e.table.Lookup(word)
	if !ok {
		return index.WordEntry{}, false
	}
	locs := make([]index.Location, len(entry.Locations))
	copy(locs, entry.Locations)
	return index.WordEntry{Word: entry.Word, Locations: locs}, true
}

// LoadFactor returns distinct words per bucket.
func (e *Engine) LoadFactor() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.table.LoadFactor()
}

// Stats returns a consistent snapshot of the index counters.
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Stats{
		Movies:        e.movies,
		Words:         e.table.Count(),
		Locations:     e.locations,
		RejectedWords: e.rejected,
		Buckets:       e.table.Size(),
		LoadFactor:    e.table.LoadFactor(),
		Threshold:     e.table.Threshold(),
		Rehashes:      e.table.Rehashes(),
	}
}

// Dump writes the whole hash table, one bucket per line.
func (e *Engine) Dump(w io.Writer) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.table.Dump(w)
}

// recordRehash runs under the write lock held by IndexMovie.
func (e *Engine) recordRehash(oldSize, newSize int) {
	e.logger.Debug("word table grown",
		"old_size", oldSize,
		"new_size", newSize,
		"words", e.table.Count(),
	)
	if e.metrics != nil {
		e.metrics.IndexRehashesTotal.Inc()
	}
}

func (e *Engine) recordTableGauges() {
	if e.metrics == nil {
		return
	}
	e.metrics.IndexWords.Set(float64(e.table.Count()))
	e.metrics.IndexBuckets.Set(float64(e.table.Size()))
	e.metrics.IndexLoadFactor.Set(e.table.LoadFactor())
}
