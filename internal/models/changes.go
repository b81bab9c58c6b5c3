package models

import "github.com/shopspring/decimal"

// StockAlert - the desired size of a tracked product became available.
type StockAlert struct {
	ProductID   int64
	ProductName string
	Size        string
	Price       decimal.Decimal
	URL         string
}

// PriceDrop - the current price of a tracked product went down.
type PriceDrop struct {
	ProductID   int64
	ProductName string
	OldPrice    decimal.Decimal
	NewPrice    decimal.Decimal
	URL         string
}

// Savings returns how much cheaper the product became.
func (d PriceDrop) Savings() decimal.Decimal {
	return d.OldPrice.Sub(d.NewPrice)
}

// ProductResult - outcome of one product in a polling cycle.
// Snapshot is nil when the product was skipped, Err then says why.
type ProductResult struct {
	Product      TrackedProduct
	Snapshot     *Snapshot
	ChangedSizes int
	Alerts       []StockAlert
	PriceDrop    *PriceDrop
	Err          error
}

// ChangeSet - aggregated result of a polling cycle.
// FailedCount counts snapshots that could not be stored and notifications that could not be sent.
type ChangeSet struct {
	UpdatedCount     int
	ChangedSizeCount int
	SkippedCount     int
	FailedCount      int
	Alerts           []StockAlert
	PriceDrops       []PriceDrop
}
