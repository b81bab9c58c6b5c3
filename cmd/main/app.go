package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Houeta/stock-flow/internal/cache"
	"github.com/Houeta/stock-flow/internal/config"
	"github.com/Houeta/stock-flow/internal/fetcher"
	"github.com/Houeta/stock-flow/internal/metrics"
	"github.com/Houeta/stock-flow/internal/parser"
	"github.com/Houeta/stock-flow/internal/repository/sqlite"
	"github.com/Houeta/stock-flow/internal/scraper"
	"github.com/Houeta/stock-flow/internal/services/checker"
	"github.com/Houeta/stock-flow/internal/services/tracker"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

// app holds the wired components shared by all commands.
type app struct {
	cfg       *config.Config
	log       *slog.Logger
	repo      *sqlite.Repository
	registry  *prometheus.Registry
	collector *metrics.Collector
	respCache *cache.Cache[[]byte]
	scraper   *scraper.Scraper
	tracker   *tracker.Tracker
}

func newApp(ctx context.Context, cfg *config.Config, log *slog.Logger) (*app, error) {
	const opn = "main.newApp"

	repo, err := sqlite.NewRepository(ctx, log, cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	respCache := cache.New[[]byte](cfg.Scraper.CacheTTL)

	client := fetcher.New(log, fetcher.Config{
		BaseURL:        cfg.Scraper.BaseURL,
		Country:        cfg.Scraper.Country,
		Language:       cfg.Scraper.Language,
		Timeout:        cfg.Scraper.RequestTimeout,
		MaxRetries:     cfg.Scraper.MaxRetries,
		RetryBaseDelay: cfg.Scraper.RetryBaseDelay,
		RateLimit:      rate.Limit(cfg.Scraper.RateLimit),
		Burst:          1,
	}, fetcher.WithMetrics(collector))

	scr, err := scraper.New(
		log,
		client,
		parser.NewParser(log),
		scraper.NewExtractor(log, client),
		respCache,
		scraper.Config{
			Country:      cfg.Scraper.Country,
			Language:     cfg.Scraper.Language,
			CacheEnabled: cfg.Scraper.CacheEnabled,
			CacheTTL:     cfg.Scraper.CacheTTL,
		},
		scraper.WithMetrics(collector),
	)
	if err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	return &app{
		cfg:       cfg,
		log:       log,
		repo:      repo,
		registry:  registry,
		collector: collector,
		respCache: respCache,
		scraper:   scr,
		tracker:   tracker.New(log, scr, repo),
	}, nil
}

// newChecker builds the polling orchestrator. notifier may be nil when alerts are only logged.
func (a *app) newChecker(notifier checker.Notifier) *checker.Checker {
	opts := []checker.Option{
		checker.WithConcurrency(a.cfg.Polling.Concurrency),
		checker.WithCacheCleaner(a.respCache),
		checker.WithMetrics(a.collector),
	}
	if notifier != nil {
		opts = append(opts, checker.WithNotifier(notifier))
	}

	return checker.NewChecker(a.log, a.scraper, a.repo, opts...)
}

func (a *app) close() {
	if err := a.repo.Close(); err != nil {
		a.log.Error("Failed to close storage", "error", err)
	}
}
