// Package corpus reads movie records and noise words from their sources.
//
// The file format is a stream of whitespace-separated tokens:
//
//	The Matrix| a hacker learns the world is a simulation;
//
// Title tokens run up to the first token containing '|'. Anything after the
// '|' starts the description, which ends at the first token containing ';'
// or at end of input.
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/internal/indexer/index"
	apperrors "github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/pkg/errors"
)

const (
	titleDelim = "|"
	endDelim   = ";"
)

type tokenStream struct {
	sc      *bufio.Scanner
	pending []string
}

func newTokenStream(r io.Reader) *tokenStream {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)
	return &tokenStream{sc: sc}
}

func (ts *tokenStream) next() (string, bool) {
	if n := len(ts.pending); n > 0 {
		tok := ts.pending[n-1]
		ts.pending = ts.pending[:n-1]
		return tok, true
	}
	if !ts.sc.Scan() {
		return "", false
	}
	return ts.sc.Text(), true
}

func (ts *tokenStream) pushBack(tok string) {
	if tok != "" {
		ts.pending = append(ts.pending, tok)
	}
}

// Parse reads every record from r. Titles are trimmed and lower-cased; a
// title seen twice is rejected with ErrDuplicateTitle.
func Parse(r io.Reader) ([]index.MovieRecord, error) {
	ts := newTokenStream(r)
	var records []index.MovieRecord
	seen := make(map[string]struct{})

	for {
		rec, ok, err := readRecord(ts, len(records)+1)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if _, dup := seen[rec.Title]; dup {
			return nil, duplicate(rec.Title)
		}
		seen[rec.Title] = struct{}{}
		records = append(records, rec)
	}
	if err := ts.sc.Err(); err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}
	return records, nil
}

// readRecord returns ok=false at a clean end of input.
func readRecord(ts *tokenStream, n int) (index.MovieRecord, bool, error) {
	var titleParts []string
	for {
		tok, ok := ts.next()
		if !ok {
			if len(titleParts) == 0 {
				return index.MovieRecord{}, false, nil
			}
			return index.MovieRecord{}, false, malformed("record %d: title %q has no %q separator",
				n, strings.Join(titleParts, " "), titleDelim)
		}
		before, after, found := strings.Cut(tok, titleDelim)
		if before != "" {
			titleParts = append(titleParts, before)
		}
		if found {
			ts.pushBack(after)
			break
		}
	}

	title := strings.ToLower(strings.TrimSpace(strings.Join(titleParts, " ")))
	if title == "" {
		return index.MovieRecord{}, false, malformed("record %d: empty title", n)
	}

	rec := index.MovieRecord{Title: title}
	for {
		tok, ok := ts.next()
		if !ok {
			break
		}
		before, after, found := strings.Cut(tok, endDelim)
		if before != "" {
			rec.Words = append(rec.Words, before)
		}
		if found {
			ts.pushBack(after)
			break
		}
	}
	return rec, true, nil
}

func malformed(format string, args ...any) error {
	return apperrors.Newf(apperrors.ErrMalformedRecord, http.StatusBadRequest, format, args...)
}

func duplicate(title string) error {
	return apperrors.Newf(apperrors.ErrDuplicateTitle, http.StatusConflict, "title %q already loaded", title)
}

// ReadNoiseWords reads whitespace-separated words, lower-cased and
// deduplicated, in first-seen order.
func ReadNoiseWords(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	seen := make(map[string]struct{})
	var words []string
	for sc.Scan() {
		w := strings.ToLower(sc.Text())
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading noise words: %w", err)
	}
	return words, nil
}
