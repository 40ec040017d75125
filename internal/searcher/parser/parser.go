package parser

import (
	"net/http"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/internal/indexer/normalizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/pkg/errors"
)

// QueryPlan is a two-word proximity query in canonical form. A word the
// normalizer rejects can never be indexed; it is kept lower-cased so the
// lookup simply misses.
type QueryPlan struct {
	WordA    string
	WordB    string
	RawQuery string
}

// Parse splits query into exactly two words.
func Parse(query string, norm *normalizer.Normalizer) (*QueryPlan, error) {
	words := strings.Fields(query)
	if len(words) != 2 {
		return nil, apperrors.Newf(apperrors.ErrInvalidInput, http.StatusBadRequest,
			"a proximity query needs exactly two words, got %d", len(words))
	}
	return &QueryPlan{
		WordA:    canonical(words[0], norm),
		WordB:    canonical(words[1], norm),
		RawQuery: query,
	}, nil
}

// ParsePair builds a plan from two separately supplied words.
func ParsePair(wordA, wordB string, norm *normalizer.Normalizer) (*QueryPlan, error) {
	wordA, wordB = strings.TrimSpace(wordA), strings.TrimSpace(wordB)
	if wordA == "" || wordB == "" || strings.ContainsFunc(wordA+wordB, isSpace) {
		return nil, apperrors.New(apperrors.ErrInvalidInput, http.StatusBadRequest,
			"parameters 'a' and 'b' must each be a single word")
	}
	return &QueryPlan{
		WordA:    canonical(wordA, norm),
		WordB:    canonical(wordB, norm),
		RawQuery: wordA + " " + wordB,
	}, nil
}

func canonical(word string, norm *normalizer.Normalizer) string {
	if w, ok := norm.Normalize(word); ok {
		return w
	}
	return strings.ToLower(word)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
