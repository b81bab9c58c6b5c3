// Package scraper turns a product page URL into a snapshot: it finds the variant
// id, consults the response cache, fetches the product API and parses the record.
package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Houeta/stock-flow/internal/cache"
	"github.com/Houeta/stock-flow/internal/metrics"
	"github.com/Houeta/stock-flow/internal/models"
)

// Site is the cache namespace of the supported retailer.
const Site = "zara"

var (
	// ErrIdentifierNotFound means the URL cannot be tracked: no variant id anywhere.
	ErrIdentifierNotFound = errors.New("no product identifier found")
	// ErrUnsupportedRegion is a configuration mistake.
	ErrUnsupportedRegion = errors.New("unsupported country or language")
)

// Fetcher returns the raw product record of a variant.
type Fetcher interface {
	Fetch(ctx context.Context, variantID string) ([]byte, error)
}

// SnapshotParser converts a raw product record into a snapshot.
type SnapshotParser interface {
	Parse(ctx context.Context, raw []byte, sourceURL, variantID string) (*models.Snapshot, error)
}

// VariantFinder looks up the variant id in the product page.
type VariantFinder interface {
	FetchVariantID(ctx context.Context, pageURL string) string
}

// Config holds the region and cache settings of a Scraper.
type Config struct {
	Country      string
	Language     string
	CacheEnabled bool
	CacheTTL     time.Duration
}

// Scraper produces snapshots for product URLs.
type Scraper struct {
	log     *slog.Logger
	fetcher Fetcher
	parser  SnapshotParser
	finder  VariantFinder
	cache   *cache.Cache[[]byte]
	cfg     Config
	metrics metrics.Recorder
}

// Option customizes a Scraper.
type Option func(*Scraper)

// WithMetrics sets the metrics recorder.
func WithMetrics(recorder metrics.Recorder) Option {
	return func(s *Scraper) {
		s.metrics = recorder
	}
}

// New creates a Scraper. respCache may be nil when caching is disabled.
func New(
	log *slog.Logger,
	fetcher Fetcher,
	parser SnapshotParser,
	finder VariantFinder,
	respCache *cache.Cache[[]byte],
	cfg Config,
	opts ...Option,
) (*Scraper, error) {
	cfg.Country = strings.ToLower(cfg.Country)
	cfg.Language = strings.ToLower(cfg.Language)

	if !SupportsRegion(cfg.Country, cfg.Language) {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnsupportedRegion, cfg.Country, cfg.Language)
	}

	s := &Scraper{
		log:     log,
		fetcher: fetcher,
		parser:  parser,
		finder:  finder,
		cache:   respCache,
		cfg:     cfg,
		metrics: metrics.Nop{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Snapshot returns the current state of the product behind pageURL.
// Errors are soft: the product simply has no snapshot this time.
func (s *Scraper) Snapshot(ctx context.Context, pageURL string) (*models.Snapshot, error) {
	const opn = "scraper.Snapshot"
	log := s.log.With("op", opn, "url", pageURL)

	_, variantID := ExtractIDs(pageURL)
	if variantID == "" {
		variantID = s.finder.FetchVariantID(ctx, pageURL)
	}
	if variantID == "" {
		log.WarnContext(ctx, "Variant id not found")
		return nil, fmt.Errorf("%s: %w: %s", opn, ErrIdentifierNotFound, pageURL)
	}

	raw, err := s.payload(ctx, variantID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	snapshot, err := s.parser.Parse(ctx, raw, pageURL, variantID)
	if err != nil {
		s.metrics.RecordParseFailure()
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	return snapshot, nil
}

// payload returns the cached record for the variant or fetches a fresh one.
func (s *Scraper) payload(ctx context.Context, variantID string) ([]byte, error) {
	useCache := s.cfg.CacheEnabled && s.cache != nil
	key := cache.Key(Site, s.cfg.Country, s.cfg.Language, variantID)

	if useCache {
		if raw, ok := s.cache.Get(key); ok {
			s.metrics.RecordCacheHit()
			s.log.DebugContext(ctx, "Cache hit", "key", key)
			return bytes.Clone(raw), nil
		}
		s.metrics.RecordCacheMiss()
	}

	raw, err := s.fetcher.Fetch(ctx, variantID)
	if err != nil {
		return nil, err
	}

	if useCache {
		s.cache.SetWithTTL(key, bytes.Clone(raw), s.cfg.CacheTTL)
	}

	return raw, nil
}
