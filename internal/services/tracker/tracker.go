// Package tracker manages the list of tracked products on behalf of the user.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Houeta/stock-flow/internal/models"
	"github.com/Houeta/stock-flow/internal/repository"
	"github.com/Houeta/stock-flow/internal/scraper"
)

var (
	ErrUnsupportedURL = errors.New("only zara.com product links are supported")
	ErrSizeNotFound   = errors.New("size not found")
)

// SizeError reports a desired size the product does not come in.
type SizeError struct {
	Size      string
	Available []string
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("%s: %s, available: %s", ErrSizeNotFound, e.Size, strings.Join(e.Available, ", "))
}

func (e *SizeError) Is(target error) bool {
	return target == ErrSizeNotFound
}

// Snapshotter produces a fresh snapshot for a product URL.
type Snapshotter interface {
	Snapshot(ctx context.Context, url string) (*models.Snapshot, error)
}

// ProductStore is the persistence the tracker works on.
type ProductStore interface {
	AddProduct(ctx context.Context, product *models.TrackedProduct) (int64, error)
	ExistsByURL(ctx context.Context, url string) (bool, error)
	GetProduct(ctx context.Context, id int64) (*models.TrackedProduct, error)
	GetActiveProducts(ctx context.Context) ([]models.TrackedProduct, error)
	DeleteProduct(ctx context.Context, id int64) error
	SaveSnapshot(ctx context.Context, productID int64, snapshot *models.Snapshot) error
}

// AddResult describes a newly tracked product.
type AddResult struct {
	Product        models.TrackedProduct
	Snapshot       *models.Snapshot
	DesiredInStock bool
}

// Tracker adds, removes and lists tracked products.
type Tracker struct {
	log     *slog.Logger
	scraper Snapshotter
	store   ProductStore
}

func New(log *slog.Logger, scraper Snapshotter, store ProductStore) *Tracker {
	return &Tracker{log: log, scraper: scraper, store: store}
}

// Add starts tracking url. The product is scraped once so that the desired
// size can be validated and the first stock state is stored right away.
// An empty desiredSize tracks price only.
func (t *Tracker) Add(ctx context.Context, url, desiredSize string) (*AddResult, error) {
	const opn = "tracker.Add"
	log := t.log.With("op", opn, "url", url)

	url = strings.TrimSpace(url)
	desiredSize = strings.ToUpper(strings.TrimSpace(desiredSize))

	if !scraper.IsSupportedURL(url) {
		return nil, fmt.Errorf("%s: %w", opn, ErrUnsupportedURL)
	}

	exists, err := t.store.ExistsByURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to check product: %w", opn, err)
	}
	if exists {
		return nil, fmt.Errorf("%s: %w", opn, repository.ErrProductExists)
	}

	snapshot, err := t.scraper.Snapshot(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get product data: %w", opn, err)
	}

	var desiredInStock bool
	if desiredSize != "" {
		entry, found := snapshot.FindSize(desiredSize)
		if !found {
			return nil, fmt.Errorf("%s: %w", opn, &SizeError{Size: desiredSize, Available: snapshot.SizeNames()})
		}
		desiredInStock = entry.InStock
	}

	product := models.TrackedProduct{
		URL:         url,
		Name:        snapshot.Name,
		ProductID:   snapshot.ProductID,
		DesiredSize: desiredSize,
		Price:       snapshot.Price,
		OldPrice:    snapshot.OldPrice,
		Discount:    snapshot.DiscountLabel,
		Color:       snapshot.Color,
		ImageURL:    snapshot.ImageURL,
	}

	product.ID, err = t.store.AddProduct(ctx, &product)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	if err = t.store.SaveSnapshot(ctx, product.ID, snapshot); err != nil {
		// The product is tracked; its stock rows are filled in by the next cycle.
		log.WarnContext(ctx, "Failed to store initial snapshot", "product_id", product.ID, "error", err)
	}

	log.InfoContext(ctx, "Product added", "product_id", product.ID, "size", desiredSize, "in_stock", desiredInStock)

	return &AddResult{Product: product, Snapshot: snapshot, DesiredInStock: desiredInStock}, nil
}

// Remove stops tracking a product.
func (t *Tracker) Remove(ctx context.Context, id int64) error {
	const opn = "tracker.Remove"

	if err := t.store.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}

	t.log.InfoContext(ctx, "Product removed", "op", opn, "product_id", id)

	return nil
}

// List returns every tracked product.
func (t *Tracker) List(ctx context.Context) ([]models.TrackedProduct, error) {
	const opn = "tracker.List"

	products, err := t.store.GetActiveProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	return products, nil
}

// DesiredSizeStatus returns the last known state of the product's desired size.
// It reports false when the product has no desired size or it was never seen.
func (t *Tracker) DesiredSizeStatus(ctx context.Context, id int64) (models.SizeEntry, bool, error) {
	const opn = "tracker.DesiredSizeStatus"

	product, err := t.store.GetProduct(ctx, id)
	if err != nil {
		return models.SizeEntry{}, false, fmt.Errorf("%s: %w", opn, err)
	}

	entry, found := product.DesiredStatus()

	return entry, found, nil
}
