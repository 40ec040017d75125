package analytics

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Tracker receives search events.
type Tracker interface {
	Track(event SearchEvent)
}

type multiTracker []Tracker

func (m multiTracker) Track(event SearchEvent) {
	for _, t := range m {
		t.Track(event)
	}
}

// Multi fans one event out to every non-nil tracker.
func Multi(trackers ...Tracker) Tracker {
	var out multiTracker
	for _, t := range trackers {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}

type Handler struct {
	aggregator *Aggregator
	logger     *slog.Logger
}

func NewHandler(aggregator *Aggregator) *Handler {
	return &Handler{
		aggregator: aggregator,
		logger:     slog.Default().With("component", "analytics-handler"),
	}
}

// Stats serves the aggregator snapshot as JSON.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats := h.aggregator.Stats()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		h.logger.Error("failed to write analytics response", "error", err)
	}
}
