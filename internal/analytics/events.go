// Package analytics streams search events to Kafka for offline analysis of
// what users look for and how often queries come back empty.
package analytics

import "time"

type EventType string

const (
	EventSearch      EventType = "search"
	EventZeroResult  EventType = "zero_result"
	EventUnknownWord EventType = "unknown_word"
)

// SearchEvent describes one answered proximity query.
type SearchEvent struct {
	Type        EventType `json:"type"`
	WordA       string    `json:"word_a"`
	WordB       string    `json:"word_b"`
	Missing     []string  `json:"missing,omitempty"`
	TotalHits   int       `json:"total_hits"`
	Returned    int       `json:"returned"`
	BestTitle   string    `json:"best_title,omitempty"`
	MinDistance int       `json:"min_distance"`
	LatencyMs   int64     `json:"latency_ms"`
	CacheHit    bool      `json:"cache_hit"`
	Timestamp   time.Time `json:"timestamp"`
	RequestID   string    `json:"request_id,omitempty"`
}

// Key partitions events by query pair so one pair's events stay ordered.
func (e SearchEvent) Key() string {
	return e.WordA + "|" + e.WordB
}
