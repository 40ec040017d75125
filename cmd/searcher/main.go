package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/internal/indexer/corpus"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/internal/searcher/handler"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/pkg/middleware"
	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/pkg/postgres"
	pkgredis "github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/pkg/redis"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults plus MS_* env when empty)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("search service failed", "error", err)
		os.Exit(1)
	}
	slog.Info("search service stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	slog.Info("starting search service",
		"port", cfg.Server.Port,
		"corpus_source", cfg.Corpus.Source,
		"initial_size", cfg.Index.InitialSize,
		"load_factor_threshold", cfg.Index.LoadFactorThreshold,
	)
	m := metrics.New()

	norm, err := corpus.LoadNormalizer(cfg.Corpus.NoiseWordsPath)
	if err != nil {
		return err
	}

	var pg *postgres.Client
	if cfg.Corpus.Source == config.SourcePostgres {
		pg, err = postgres.New(ctx, cfg.Postgres)
		if err != nil {
			return err
		}
		defer pg.Close()
	}
	source, err := corpus.NewSource(cfg.Corpus, pg)
	if err != nil {
		return err
	}
	movies, err := source.Movies(ctx)
	if err != nil {
		return fmt.Errorf("loading corpus: %w", err)
	}

	engine, err := indexer.NewEngine(cfg.Index, norm, m)
	if err != nil {
		return err
	}
	if err := engine.IndexAll(ctx, movies); err != nil {
		return fmt.Errorf("indexing corpus: %w", err)
	}

	var queryCache *cache.QueryCache
	var redisClient *pkgredis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			slog.Warn("redis unavailable, search caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			queryCache = cache.New(redisClient, cfg.Redis.CacheTTL, m)
			// Cached answers from an older corpus are stale.
			if err := queryCache.Invalidate(ctx); err != nil {
				slog.Warn("cache flush at startup failed", "error", err)
			}
			slog.Info("search cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
		}
	}

	aggregator := analytics.NewAggregator()
	trackers := []analytics.Tracker{aggregator}
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.AnalyticsEvents)
		defer producer.Close()
		collector := analytics.NewCollector(producer, 10000, 100, 5*time.Second)
		collector.Start(ctx)
		defer collector.Close()
		trackers = append(trackers, collector)
		slog.Info("analytics stream enabled", "topic", cfg.Kafka.Topics.AnalyticsEvents)
	}

	checker := health.NewChecker()
	checker.Register("index", func(ctx context.Context) health.ComponentHealth {
		stats := engine.Stats()
		if stats.Movies == 0 {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "index is empty"}
		}
		return health.ComponentHealth{
			Status:  health.StatusUp,
			Message: fmt.Sprintf("%d movies, %d words", stats.Movies, stats.Words),
		}
	})
	if redisClient != nil {
		checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
			if err := redisClient.Ping(ctx); err != nil {
				return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
			}
			return health.ComponentHealth{Status: health.StatusUp}
		})
	}
	if pg != nil {
		checker.Register("postgres", func(ctx context.Context) health.ComponentHealth {
			// The index is already built; losing the database only blocks reloads.
			if err := pg.Ping(ctx); err != nil {
				return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
			}
			return health.ComponentHealth{Status: health.StatusUp}
		})
	}

	exec := executor.New(engine, cfg.Search.MaxResults, m)
	h := handler.New(exec, engine, norm, queryCache, analytics.Multi(trackers...),
		cfg.Search.DefaultLimit, cfg.Search.MaxResults)

	mux := http.NewServeMux()
	h.Register(mux)
	mux.HandleFunc("GET /api/v1/analytics/stats", analytics.NewHandler(aggregator).Stats)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	// Metrics wraps the mux directly so it sees the matched route pattern.
	var chain http.Handler = mux
	chain = middleware.Metrics(m)(chain)
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	if cfg.Server.RateLimitPerMinute > 0 {
		chain = middleware.RateLimit(middleware.NewLimiter(cfg.Server.RateLimitPerMinute, time.Minute))(chain)
	}
	chain = middleware.RequestID(chain)

	servers := []*http.Server{{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}}
	if cfg.Metrics.Enabled {
		servers = append(servers, metrics.NewServer(cfg.Metrics.Port))
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			slog.Info("listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serving %s: %w", srv.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				slog.Error("server shutdown error", "addr", srv.Addr, "error", err)
			}
		}
		return nil
	})
	return g.Wait()
}
