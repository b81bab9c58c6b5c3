package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Availability is the upstream per-size stock status. Unknown values are kept as-is.
type Availability string

const (
	InStock    Availability = "in_stock"
	OutOfStock Availability = "out_of_stock"
	LowOnStock Availability = "low_on_stock"
	ComingSoon Availability = "coming_soon"
	BackSoon   Availability = "back_soon"
)

// UnknownName is used when the upstream record carries no product name.
const UnknownName = "Unknown Product"

// InStock reports whether a size with this status can be bought.
// It is the only place where statuses are mapped to in/out of stock.
func (a Availability) InStock() bool {
	switch a {
	case InStock, LowOnStock, BackSoon:
		return true
	case OutOfStock, ComingSoon:
		return false
	default:
		return false
	}
}

// SizeEntry is the stock state of one size of a product.
type SizeEntry struct {
	Size          string
	InStock       bool
	Status        Availability
	Price         decimal.Decimal
	OldPrice      decimal.Decimal
	DiscountLabel string
}

// Snapshot is a point-in-time view of a product's price and per-size availability.
type Snapshot struct {
	ProductID     string
	Name          string
	Price         decimal.Decimal
	OldPrice      decimal.Decimal // zero when there is no pre-discount price
	DiscountLabel string
	Color         string
	ImageURL      string
	SourceURL     string
	Sizes         []SizeEntry
}

// FindSize returns the size entry matching size case-insensitively.
func (s *Snapshot) FindSize(size string) (SizeEntry, bool) {
	for _, entry := range s.Sizes {
		if SameSize(entry.Size, size) {
			return entry, true
		}
	}

	return SizeEntry{}, false
}

// SizeNames returns the size labels in snapshot order.
func (s *Snapshot) SizeNames() []string {
	names := make([]string, 0, len(s.Sizes))
	for _, entry := range s.Sizes {
		names = append(names, entry.Size)
	}

	return names
}

// SameSize compares two size labels ignoring case and surrounding spaces.
func SameSize(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// TrackedProduct is a product the user watches, together with its last known state.
type TrackedProduct struct {
	ID          int64
	URL         string
	Name        string
	ProductID   string
	DesiredSize string
	Price       decimal.Decimal
	OldPrice    decimal.Decimal
	Discount    string
	Color       string
	ImageURL    string
	PriorSizes  map[string]SizeEntry
}

// DesiredStatus returns the last known entry of the desired size.
// It reports false when no size is desired or the size was never seen.
func (p *TrackedProduct) DesiredStatus() (SizeEntry, bool) {
	if strings.TrimSpace(p.DesiredSize) == "" {
		return SizeEntry{}, false
	}

	if entry, ok := p.PriorSizes[p.DesiredSize]; ok {
		return entry, true
	}
	for size, entry := range p.PriorSizes {
		if SameSize(size, p.DesiredSize) {
			return entry, true
		}
	}

	return SizeEntry{}, false
}

// PricePoint is one record of a product's price history.
type PricePoint struct {
	Price      decimal.Decimal
	OldPrice   decimal.Decimal
	Discount   string
	RecordedAt time.Time
}
