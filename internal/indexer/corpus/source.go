package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/internal/indexer/normalizer"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/pkg/postgres"
	"github.com/lib/pq"
)

// Source yields the movies to index.
type Source interface {
	Movies(ctx context.Context) ([]index.MovieRecord, error)
}

// FileSource reads a corpus file in the '|' / ';' format.
type FileSource struct {
	Path string
}

func (s FileSource) Movies(ctx context.Context) ([]index.MovieRecord, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus %s: %w", s.Path, err)
	}
	defer f.Close()
	recs, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing corpus %s: %w", s.Path, err)
	}
	return recs, nil
}

// rowScanner is the subset of *sql.Rows the Postgres source needs.
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// PostgresSource reads (title, description) rows from a table.
type PostgresSource struct {
	Client *postgres.Client
	Table  string
}

func (s PostgresSource) Movies(ctx context.Context) ([]index.MovieRecord, error) {
	query := "SELECT title, description FROM " + pq.QuoteIdentifier(s.Table) + " ORDER BY title"
	rows, err := s.Client.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying movies from %s: %w", s.Table, err)
	}
	return readRows(rows)
}

// readRows closes rows. Titles get the same trimming and lower-casing as the
// file format, and duplicates after that are rejected.
func readRows(rows rowScanner) ([]index.MovieRecord, error) {
	defer rows.Close()
	var recs []index.MovieRecord
	seen := make(map[string]struct{})
	for rows.Next() {
		var title, description string
		if err := rows.Scan(&title, &description); err != nil {
			return nil, fmt.Errorf("scanning movie row: %w", err)
		}
		title = strings.ToLower(strings.TrimSpace(title))
		if title == "" {
			return nil, malformed("row %d: empty title", len(recs)+1)
		}
		if _, dup := seen[title]; dup {
			return nil, duplicate(title)
		}
		seen[title] = struct{}{}
		recs = append(recs, index.MovieRecord{Title: title, Words: strings.Fields(description)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating movie rows: %w", err)
	}
	return recs, nil
}

// NewSource picks the corpus source named by cfg. pg is only used for the
// postgres source and may be nil otherwise.
func NewSource(cfg config.CorpusConfig, pg *postgres.Client) (Source, error) {
	switch cfg.Source {
	case config.SourceFile, "":
		return FileSource{Path: cfg.Path}, nil
	case config.SourcePostgres:
		if pg == nil {
			return nil, fmt.Errorf("corpus source %q needs a postgres client", cfg.Source)
		}
		return PostgresSource{Client: pg, Table: cfg.Table}, nil
	default:
		return nil, fmt.Errorf("unknown corpus source %q", cfg.Source)
	}
}

// LoadNormalizer builds the normalizer from a noise-word file, or the
// built-in stop words when path is empty.
func LoadNormalizer(path string) (*normalizer.Normalizer, error) {
	if path == "" {
		return normalizer.Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening noise words %s: %w", path, err)
	}
	defer f.Close()
	words, err := ReadNoiseWords(f)
	if err != nil {
		return nil, err
	}
	slog.Info("noise words loaded", "path", path, "count", len(words))
	return normalizer.New(words), nil
}
