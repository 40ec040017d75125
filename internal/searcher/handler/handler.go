// Package handler exposes the proximity search engine over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/internal/indexer/normalizer"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/internal/searcher/parser"
	apperrors "github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/pkg/logger"
)

type SearchExecutor interface {
	SearchPair(ctx context.Context, wordA, wordB string) *executor.SearchResult
}

// IndexInspector is the diagnostic side of the index.
type IndexInspector interface {
	Stats() indexer.Stats
	Dump(w io.Writer) error
}

type Handler struct {
	executor     SearchExecutor
	index        IndexInspector
	normalizer   *normalizer.Normalizer
	cache        *cache.QueryCache
	tracker      analytics.Tracker
	defaultLimit int
	maxResults   int
	logger       *slog.Logger
}

// New wires the search routes. queryCache and tracker may be nil.
func New(
	exec SearchExecutor,
	idx IndexInspector,
	norm *normalizer.Normalizer,
	queryCache *cache.QueryCache,
	tracker analytics.Tracker,
	defaultLimit, maxResults int,
) *Handler {
	if maxResults <= 0 || maxResults > executor.DefaultLimit {
		maxResults = executor.DefaultLimit
	}
	if defaultLimit <= 0 || defaultLimit > maxResults {
		defaultLimit = maxResults
	}
	return &Handler{
		executor:     exec,
		index:        idx,
		normalizer:   norm,
		cache:        queryCache,
		tracker:      tracker,
		defaultLimit: defaultLimit,
		maxResults:   maxResults,
		logger:       slog.Default().With("component", "search-handler"),
	}
}

// Register mounts every route on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/index/stats", h.IndexStats)
	mux.HandleFunc("GET /api/v1/index/dump", h.IndexDump)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
}

// Search answers ?a=&b= or ?q=word+word.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)
	q := r.URL.Query()

	var plan *parser.QueryPlan
	var err error
	if query := q.Get("q"); query != "" {
		plan, err = parser.Parse(query, h.normalizer)
	} else if q.Get("a") != "" || q.Get("b") != "" {
		plan, err = parser.ParsePair(q.Get("a"), q.Get("b"), h.normalizer)
	} else {
		err = apperrors.New(apperrors.ErrInvalidInput, http.StatusBadRequest,
			"query parameters 'a' and 'b' (or 'q') are required")
	}
	if err != nil {
		h.writeAppError(w, err)
		return
	}

	limit := h.defaultLimit
	if limitStr := q.Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(parsed, h.maxResults)
	}

	compute := func() *executor.SearchResult {
		return truncate(h.executor.SearchPair(ctx, plan.WordA, plan.WordB), limit)
	}
	var result *executor.SearchResult
	cacheHit := false
	if h.cache != nil {
		result, cacheHit = h.cache.GetOrCompute(ctx, plan.WordA, plan.WordB, limit, compute)
	} else {
		result = compute()
	}

	latencyMs := time.Since(start).Milliseconds()
	log.Info("search completed",
		"word_a", plan.WordA,
		"word_b", plan.WordB,
		"total_hits", result.TotalHits,
		"returned", len(result.Results),
		"cache_hit", cacheHit,
		"latency_ms", latencyMs,
	)
	if h.tracker != nil {
		h.tracker.Track(searchEvent(result, cacheHit, latencyMs, logger.RequestID(ctx)))
	}

	h.writeJSON(w, http.StatusOK, result)
}

// truncate returns result with at most limit results, copying when it has
// to cut so a shared result is never modified.
func truncate(result *executor.SearchResult, limit int) *executor.SearchResult {
	if len(result.Results) <= limit {
		return result
	}
	cut := *result
	cut.Results = cut.Results[:limit:limit]
	return &cut
}

func searchEvent(result *executor.SearchResult, cacheHit bool, latencyMs int64, requestID string) analytics.SearchEvent {
	event := analytics.SearchEvent{
		Type:        analytics.EventSearch,
		WordA:       result.WordA,
		WordB:       result.WordB,
		Missing:     result.Missing,
		TotalHits:   result.TotalHits,
		Returned:    len(result.Results),
		MinDistance: -1,
		LatencyMs:   latencyMs,
		CacheHit:    cacheHit,
		Timestamp:   time.Now().UTC(),
		RequestID:   requestID,
	}
	switch {
	case len(result.Missing) > 0:
		event.Type = analytics.EventUnknownWord
	case len(result.Results) == 0:
		event.Type = analytics.EventZeroResult
	default:
		event.BestTitle = result.Results[0].Title
		event.MinDistance = result.Results[0].MinDistance
	}
	return event
}

func (h *Handler) IndexStats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.index.Stats())
}

// IndexDump streams the bucket-by-bucket table listing as plain text.
func (h *Handler) IndexDump(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := h.index.Dump(w); err != nil {
		logger.FromContext(r.Context()).Error("index dump failed", "error", err)
	}
}

func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}

	hits, misses := h.cache.Stats()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": fmt.Sprintf("%.1f%%", hitRate),
	})
}

func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, http.StatusServiceUnavailable, "caching is disabled")
		return
	}

	if err := h.cache.Invalidate(r.Context()); err != nil {
		logger.FromContext(r.Context()).Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

func (h *Handler) writeAppError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	message := err.Error()
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	h.writeError(w, apperrors.HTTPStatusCode(err), message)
}
