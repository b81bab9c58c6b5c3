package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Houeta/stock-flow/internal/models"
	"github.com/Houeta/stock-flow/internal/repository"
	"github.com/shopspring/decimal"
)

// SaveSnapshot atomically stores a fresh snapshot: per-size stock rows are
// upserted, the product's price fields are refreshed and a price history
// record is added when the price changed.
func (r *Repository) SaveSnapshot(ctx context.Context, productID int64, snapshot *models.Snapshot) error {
	const opn = "repository.sqlite.SaveSnapshot"

	// 1. begin transaction
	tx, err := r.db.BeginTx(ctx, nil) //nolint:varnamelen // tx its a default naming for transaction
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", opn, err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit only returns sql.ErrTxDone

	// 2. Previous price decides whether history grows.
	var prevPrice decimal.Decimal
	err = tx.QueryRowContext(ctx, "SELECT price FROM products WHERE id = ?", productID).Scan(&prevPrice)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: %w", opn, repository.ErrProductNotFound)
		}
		return fmt.Errorf("%s: failed to get previous price: %w", opn, err)
	}

	now := r.now().UTC()

	// 3. Upsert every size of the snapshot.
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO stock_statuses (product_id, size, in_stock, stock_status, price, last_updated)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (product_id, size) DO UPDATE SET
			in_stock = excluded.in_stock,
			stock_status = excluded.stock_status,
			price = excluded.price,
			last_updated = excluded.last_updated`)
	if err != nil {
		return fmt.Errorf("%s: failed to prepare stock statement: %w", opn, err)
	}
	defer stmt.Close()

	for _, size := range snapshot.Sizes {
		if _, err = stmt.ExecContext(ctx, productID, size.Size, size.InStock, string(size.Status), size.Price, now); err != nil {
			return fmt.Errorf("%s: failed to upsert stock for size %s: %w", opn, size.Size, err)
		}
	}

	// 4. Refresh the product itself.
	_, err = tx.ExecContext(ctx, `
		UPDATE products SET
			name = ?, external_id = ?, price = ?, old_price = ?, discount = ?, color = ?, image_url = ?, last_check = ?
		WHERE id = ?`,
		snapshot.Name, snapshot.ProductID, snapshot.Price, snapshot.OldPrice, snapshot.DiscountLabel,
		snapshot.Color, snapshot.ImageURL, now, productID,
	)
	if err != nil {
		return fmt.Errorf("%s: failed to update product: %w", opn, err)
	}

	// 5. Price history only records changes.
	if !snapshot.Price.IsZero() && !snapshot.Price.Equal(prevPrice) {
		_, err = tx.ExecContext(
			ctx,
			"INSERT INTO price_history (product_id, price, old_price, discount, recorded_at) VALUES (?, ?, ?, ?, ?)",
			productID, snapshot.Price, snapshot.OldPrice, snapshot.DiscountLabel, now,
		)
		if err != nil {
			return fmt.Errorf("%s: failed to insert price history: %w", opn, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", opn, err)
	}

	return nil
}

// GetPriceHistory returns up to limit price records of a product, newest first.
func (r *Repository) GetPriceHistory(ctx context.Context, productID int64, limit int) ([]models.PricePoint, error) {
	const opn = "repository.sqlite.GetPriceHistory"

	rows, err := r.db.QueryContext(
		ctx,
		`SELECT price, old_price, discount, recorded_at FROM price_history
		WHERE product_id = ? ORDER BY recorded_at DESC, id DESC LIMIT ?`,
		productID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}
	defer rows.Close()

	var history []models.PricePoint
	for rows.Next() {
		var p models.PricePoint
		if err = rows.Scan(&p.Price, &p.OldPrice, &p.Discount, &p.RecordedAt); err != nil {
			return nil, fmt.Errorf("%s: failed to scan price record: %w", opn, err)
		}
		history = append(history, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", opn, err)
	}

	return history, nil
}
