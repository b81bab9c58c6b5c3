package main

import (
	"context"
	"log/slog"

	"github.com/Houeta/stock-flow/internal/models"
)

// logNotifier reports alerts to the log when Telegram is disabled.
type logNotifier struct {
	log *slog.Logger
}

func (n logNotifier) NotifyStockAvailable(ctx context.Context, alert models.StockAlert) error {
	n.log.WarnContext(ctx, "Desired size is back in stock",
		"product_id", alert.ProductID,
		"product", alert.ProductName,
		"size", alert.Size,
		"price", alert.Price.StringFixed(2),
		"url", alert.URL,
	)

	return nil
}

func (n logNotifier) NotifyPriceDrop(ctx context.Context, drop models.PriceDrop) error {
	n.log.WarnContext(ctx, "Price dropped",
		"product_id", drop.ProductID,
		"product", drop.ProductName,
		"old_price", drop.OldPrice.StringFixed(2),
		"new_price", drop.NewPrice.StringFixed(2),
		"url", drop.URL,
	)

	return nil
}
