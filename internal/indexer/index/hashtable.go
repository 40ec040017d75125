package index

import (
	"bufio"
	"fmt"
	"io"

	apperrors "github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/pkg/errors"
	"github.com/cespare/xxhash/v2"
)

// HashTable is a chained hash table from canonical word to WordEntry. Each
// bucket owns a slice of entries; growth doubles the bucket count and relinks
// every entry before a new word is added. It is not safe for concurrent use.
type HashTable struct {
	buckets   [][]*WordEntry
	count     int
	threshold float64
	rehashes  int
	onRehash  func(oldSize, newSize int)
}

// NewHashTable returns an empty table with initialSize buckets that doubles
// when adding a word would push the load factor above threshold.
func NewHashTable(initialSize int, threshold float64) (*HashTable, error) {
	if initialSize < 1 {
		return nil, apperrors.Newf(apperrors.ErrInvalidInput, 0, "initial table size must be positive, got %d", initialSize)
	}
	if threshold <= 0 {
		return nil, apperrors.Newf(apperrors.ErrInvalidInput, 0, "load factor threshold must be positive, got %g", threshold)
	}
	return &HashTable{
		buckets:   make([][]*WordEntry, initialSize),
		threshold: threshold,
	}, nil
}

// OnRehash registers fn to be called after every resize.
func (h *HashTable) OnRehash(fn func(oldSize, newSize int)) {
	h.onRehash = fn
}

// Hash maps word to a bucket index under the current size.
func (h *HashTable) Hash(word string) int {
	return bucketFor(word, len(h.buckets))
}

func bucketFor(word string, size int) int {
	return int(xxhash.Sum64String(word) % uint64(size))
}

// Lookup scans the word's bucket for an exact match.
func (h *HashTable) Lookup(word string) (*WordEntry, bool) {
	for _, e := range h.buckets[h.Hash(word)] {
		if e.Word == word {
			return e, true
		}
	}
	return nil, false
}

// InsertLocation appends loc to word's posting, creating the entry if the
// word is new. Creating an entry may first grow the table. word must be
// non-empty.
func (h *HashTable) InsertLocation(word string, loc Location) {
	if word == "" {
		panic("index: InsertLocation called with empty word")
	}
	if e, ok := h.Lookup(word); ok {
		e.Locations = append(e.Locations, loc)
		return
	}
	if float64(h.count+1)/float64(len(h.buckets)) > h.threshold {
		h.rehash(2 * len(h.buckets))
	}
	i := h.Hash(word)
	h.buckets[i] = append(h.buckets[i], &WordEntry{
		Word:      word,
		Locations: []Location{loc},
	})
	h.count++
}

func (h *HashTable) rehash(newSize int) {
	oldSize := len(h.buckets)
	buckets := make([][]*WordEntry, newSize)
	moved := 0
	for _, chain := range h.buckets {
		for _, e := range chain {
			i := bucketFor(e.Word, newSize)
			buckets[i] = append(buckets[i], e)
			moved++
		}
	}
	if moved != h.count {
		panic(fmt.Sprintf("index: rehash moved %d entries, table holds %d", moved, h.count))
	}
	h.buckets = buckets
	h.rehashes++
	if h.onRehash != nil {
		h.onRehash(oldSize, newSize)
	}
}

// LoadFactor returns distinct words per bucket.
func (h *HashTable) LoadFactor() float64 {
	return float64(h.count) / float64(len(h.buckets))
}

// Size returns the current bucket count.
func (h *HashTable) Size() int { return len(h.buckets) }

// Count returns the number of distinct words.
func (h *HashTable) Count() int { return h.count }

// Rehashes returns how many times the table has grown.
func (h *HashTable) Rehashes() int { return h.rehashes }

// Threshold returns the load factor that triggers growth.
func (h *HashTable) Threshold() float64 { return h.threshold }

// Walk calls fn for every entry, bucket by bucket.
func (h *HashTable) Walk(fn func(bucket int, e *WordEntry)) {
	for i, chain := range h.buckets {
		for _, e := range chain {
			fn(i, e)
		}
	}
}

// Dump writes one line per bucket in the form
// [i]->word(title,pos)(title,pos)->word(...).
func (h *HashTable) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i, chain := range h.buckets {
		fmt.Fprintf(bw, "[%d]->", i)
		for j, e := range chain {
			if j > 0 {
				bw.WriteString("->")
			}
			bw.WriteString(e.Word)
			for _, loc := range e.Locations {
				fmt.Fprintf(bw, "(%s,%d)", loc.Title, loc.Position)
			}
		}
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing table dump: %w", err)
	}
	return nil
}
