// Command moviesearch indexes a corpus file and answers one proximity query
// from the command line.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/internal/indexer/corpus"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/pkg/logger"
)

type options struct {
	corpusPath string
	noisePath  string
	wordA      string
	wordB      string
	dump       bool
	index      config.IndexConfig
	limit      int
	logLevel   string
}

func main() {
	defaults := config.Default()
	var opts options
	flag.StringVar(&opts.corpusPath, "corpus", "", "corpus file in 'title| words ...;' format (required)")
	flag.StringVar(&opts.noisePath, "noise", "", "noise-word file (built-in stop words when empty)")
	flag.StringVar(&opts.wordA, "a", "", "first query word")
	flag.StringVar(&opts.wordB, "b", "", "second query word")
	flag.BoolVar(&opts.dump, "dump", false, "print the hash table after indexing")
	flag.IntVar(&opts.index.InitialSize, "size", defaults.Index.InitialSize, "initial bucket count")
	flag.Float64Var(&opts.index.LoadFactorThreshold, "threshold", defaults.Index.LoadFactorThreshold, "load factor that triggers a rehash")
	flag.IntVar(&opts.limit, "limit", executor.DefaultLimit, "maximum movies to print (at most 10)")
	flag.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flag.Parse()

	logger.Setup(opts.logLevel, "text")
	if err := run(context.Background(), os.Stdout, opts); err != nil {
		fmt.Fprintf(os.Stderr, "moviesearch: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, out io.Writer, opts options) error {
	if opts.corpusPath == "" {
		return fmt.Errorf("-corpus is required")
	}
	norm, err := corpus.LoadNormalizer(opts.noisePath)
	if err != nil {
		return err
	}
	movies, err := corpus.FileSource{Path: opts.corpusPath}.Movies(ctx)
	if err != nil {
		return err
	}
	engine, err := indexer.NewEngine(opts.index, norm, nil)
	if err != nil {
		return err
	}
	if err := engine.IndexAll(ctx, movies); err != nil {
		return err
	}
	stats := engine.Stats()
	slog.Info("corpus indexed", "movies", stats.Movies, "words", stats.Words)

	if opts.dump {
		if err := engine.Dump(out); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "load factor: %.3f (%d words in %d buckets)\n", stats.LoadFactor, stats.Words, stats.Buckets)

	if opts.wordA == "" && opts.wordB == "" {
		return nil
	}
	plan, err := parser.ParsePair(opts.wordA, opts.wordB, norm)
	if err != nil {
		return err
	}
	result := executor.New(engine, opts.limit, nil).SearchPair(ctx, plan.WordA, plan.WordB)
	return printResult(out, result)
}

func printResult(out io.Writer, result *executor.SearchResult) error {
	if len(result.Missing) > 0 {
		fmt.Fprintf(out, "not indexed: %v\n", result.Missing)
		return nil
	}
	if len(result.Results) == 0 {
		fmt.Fprintf(out, "no movie contains both %q and %q\n", result.WordA, result.WordB)
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tDISTANCE\tTITLE")
	for i, r := range result.Results {
		fmt.Fprintf(tw, "%d\t%d\t%s\n", i+1, r.MinDistance, r.Title)
	}
	return tw.Flush()
}
