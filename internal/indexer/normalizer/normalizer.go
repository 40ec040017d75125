// Package normalizer turns raw description tokens into canonical index words.
// A token keeps only its letters and digits after trailing punctuation is
// stripped; anything else, including punctuation inside the token, rejects it.
package normalizer

import (
	"strings"
	"unicode"
)

// trailingPunct is the set of characters stripped from the end of a token.
const trailingPunct = ".,?:;!"

var defaultNoiseWords = []string{
	"a", "an", "and", "are", "as", "at",
	"be", "by", "for", "from", "has", "he",
	"in", "is", "it", "its", "of", "on",
	"or", "that", "the", "to", "was", "were",
	"will", "with", "this", "but", "they",
	"have", "had", "what", "when", "where",
	"who", "which", "their", "if", "each",
	"do", "not", "no", "so", "can",
}

// Normalizer holds an immutable noise-word set.
type Normalizer struct {
	noise map[string]struct{}
}

// New builds a Normalizer excluding the given noise words. Words are
// lower-cased; blanks are ignored.
func New(noiseWords []string) *Normalizer {
	noise := make(map[string]struct{}, len(noiseWords))
	for _, w := range noiseWords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		noise[w] = struct{}{}
	}
	return &Normalizer{noise: noise}
}

// Default returns a Normalizer using a built-in list of English stop words.
func Default() *Normalizer {
	return New(defaultNoiseWords)
}

// Normalize returns the canonical form of raw, or false if raw is not
// indexable.
func (n *Normalizer) Normalize(raw string) (string, bool) {
	word := strings.TrimRight(raw, trailingPunct)
	if word == "" {
		return "", false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return "", false
		}
	}
	word = strings.ToLower(word)
	if n.IsNoise(word) {
		return "", false
	}
	return word, true
}

// IsNoise reports whether the lower-cased word is excluded from the index.
func (n *Normalizer) IsNoise(word string) bool {
	_, ok := n.noise[word]
	return ok
}

// NoiseCount returns the size of the noise-word set.
func (n *Normalizer) NoiseCount() int {
	return len(n.noise)
}
