package checker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Houeta/stock-flow/internal/metrics"
	"github.com/Houeta/stock-flow/internal/models"
	"github.com/sourcegraph/conc/pool"
)

// ErrPanic wraps a panic recovered while processing a single product.
var ErrPanic = errors.New("panic while checking product")

// Snapshotter produces a fresh snapshot for a product URL.
type Snapshotter interface {
	Snapshot(ctx context.Context, url string) (*models.Snapshot, error)
}

// Repository is the persistence the checker reads prior state from and writes snapshots to.
type Repository interface {
	GetActiveProducts(ctx context.Context) ([]models.TrackedProduct, error)
	SaveSnapshot(ctx context.Context, productID int64, snapshot *models.Snapshot) error
}

// Notifier delivers alerts to the user.
type Notifier interface {
	NotifyStockAvailable(ctx context.Context, alert models.StockAlert) error
	NotifyPriceDrop(ctx context.Context, drop models.PriceDrop) error
}

// CacheCleaner drops expired response cache entries.
type CacheCleaner interface {
	CleanupExpired() int
}

// Interface is what the CLI and the bot need from a checker.
type Interface interface {
	// CheckForUpdates performs one full polling cycle.
	CheckForUpdates(ctx context.Context) (*models.ChangeSet, error)
}

// Checker is an orchestrator that performs a full verification cycle.
type Checker struct {
	log         *slog.Logger
	scraper     Snapshotter
	repo        Repository
	notifier    Notifier
	cleaner     CacheCleaner
	metrics     metrics.Recorder
	concurrency int
}

// Option customizes a Checker.
type Option func(*Checker)

// WithConcurrency bounds how many products are checked at once. Values below 1 mean sequential.
func WithConcurrency(n int) Option {
	return func(c *Checker) {
		c.concurrency = max(n, 1)
	}
}

func WithNotifier(n Notifier) Option {
	return func(c *Checker) {
		c.notifier = n
	}
}

func WithCacheCleaner(cl CacheCleaner) Option {
	return func(c *Checker) {
		c.cleaner = cl
	}
}

func WithMetrics(recorder metrics.Recorder) Option {
	return func(c *Checker) {
		c.metrics = recorder
	}
}

// NewChecker creates a new Checker instance.
func NewChecker(log *slog.Logger, scraper Snapshotter, repo Repository, opts ...Option) *Checker {
	c := &Checker{
		log:         log,
		scraper:     scraper,
		repo:        repo,
		metrics:     metrics.Nop{},
		concurrency: 1,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// PollAll checks every product and aggregates the outcome. A failing or
// panicking product is reported as skipped and never aborts the batch.
// Products not started before ctx is done are skipped with ctx.Err().
func (c *Checker) PollAll(ctx context.Context, products []models.TrackedProduct) ([]models.ProductResult, models.ChangeSet) {
	const opn = "checker.PollAll"
	log := c.log.With("op", opn)

	results := make([]models.ProductResult, len(products))

	p := pool.New().WithMaxGoroutines(c.concurrency)
	for i, product := range products {
		if err := ctx.Err(); err != nil {
			results[i] = models.ProductResult{Product: product, Err: err}
			continue
		}

		p.Go(func() {
			results[i] = c.pollOne(ctx, product)
		})
	}
	p.Wait()

	var changes models.ChangeSet
	for _, res := range results {
		if res.Snapshot == nil {
			changes.SkippedCount++
			log.WarnContext(ctx, "Product skipped", "product_id", res.Product.ID, "url", res.Product.URL, "error", res.Err)
			continue
		}

		changes.UpdatedCount++
		changes.ChangedSizeCount += res.ChangedSizes
		changes.Alerts = append(changes.Alerts, res.Alerts...)
		if res.PriceDrop != nil {
			changes.PriceDrops = append(changes.PriceDrops, *res.PriceDrop)
		}
	}

	log.InfoContext(
		ctx,
		"Polling cycle complete",
		"updated", changes.UpdatedCount,
		"changed_sizes", changes.ChangedSizeCount,
		"skipped", changes.SkippedCount,
		"alerts", len(changes.Alerts),
	)

	return results, changes
}

func (c *Checker) pollOne(ctx context.Context, product models.TrackedProduct) (res models.ProductResult) {
	res.Product = product

	defer func() {
		if r := recover(); r != nil {
			res = models.ProductResult{Product: product, Err: fmt.Errorf("%w: %v", ErrPanic, r)}
		}
	}()

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	snapshot, err := c.scraper.Snapshot(ctx, product.URL)
	if err != nil {
		res.Err = err
		return res
	}
	if snapshot == nil {
		res.Err = fmt.Errorf("empty snapshot for %s", product.URL)
		return res
	}

	name := snapshot.Name
	if name == "" {
		name = product.Name
	}

	res.Snapshot = snapshot
	res.ChangedSizes, res.Alerts = DiffSizes(product.ID, name, product.DesiredSize, product.PriorSizes, snapshot)
	res.PriceDrop = DetectPriceDrop(product, snapshot)

	return res
}

// CheckForUpdates loads the tracked products, polls them, stores every fresh
// snapshot and notifies about alerts. Only a failure to load products is returned.
func (c *Checker) CheckForUpdates(ctx context.Context) (*models.ChangeSet, error) {
	const opn = "checker.CheckForUpdates"
	log := c.log.With("op", opn)

	products, err := c.repo.GetActiveProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get active products: %w", opn, err)
	}
	log.InfoContext(ctx, "Checking tracked products", "count", len(products))

	results, changes := c.PollAll(ctx, products)

	for _, res := range results {
		if res.Snapshot == nil {
			continue
		}

		// A snapshot that was not stored keeps the old state, so the same
		// transition shows up again next cycle and is notified then.
		if err = c.repo.SaveSnapshot(ctx, res.Product.ID, res.Snapshot); err != nil {
			changes.FailedCount++
			log.ErrorContext(ctx, "Failed to save snapshot", "product_id", res.Product.ID, "error", err)
			continue
		}

		c.notify(ctx, log, res, &changes)
	}

	if c.cleaner != nil {
		if removed := c.cleaner.CleanupExpired(); removed > 0 {
			log.DebugContext(ctx, "Removed expired cache entries", "count", removed)
		}
	}

	c.metrics.RecordCycle(changes.UpdatedCount, changes.SkippedCount, len(changes.Alerts))

	return &changes, nil
}

func (c *Checker) notify(ctx context.Context, log *slog.Logger, res models.ProductResult, changes *models.ChangeSet) {
	if c.notifier == nil {
		return
	}

	for _, alert := range res.Alerts {
		if err := c.notifier.NotifyStockAvailable(ctx, alert); err != nil {
			changes.FailedCount++
			log.ErrorContext(ctx, "Failed to send stock alert", "product_id", alert.ProductID, "size", alert.Size, "error", err)
		}
	}

	if res.PriceDrop != nil {
		if err := c.notifier.NotifyPriceDrop(ctx, *res.PriceDrop); err != nil {
			changes.FailedCount++
			log.ErrorContext(ctx, "Failed to send price drop", "product_id", res.PriceDrop.ProductID, "error", err)
		}
	}
}
