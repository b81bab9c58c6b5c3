package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Houeta/stock-flow/internal/models"
	"github.com/Houeta/stock-flow/internal/repository"
	"github.com/mattn/go-sqlite3"
)

const productColumns = "id, url, name, external_id, desired_size, price, old_price, discount, color, image_url"

// AddProduct starts tracking a product and returns its id.
func (r *Repository) AddProduct(ctx context.Context, product *models.TrackedProduct) (int64, error) {
	const opn = "repository.sqlite.AddProduct"

	res, err := r.db.ExecContext(
		ctx,
		`INSERT INTO products (url, name, external_id, desired_size, price, old_price, discount, color, image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		product.URL, product.Name, product.ProductID, product.DesiredSize,
		product.Price, product.OldPrice, product.Discount, product.Color, product.ImageURL,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return 0, fmt.Errorf("%s: %w", opn, repository.ErrProductExists)
		}
		return 0, fmt.Errorf("%s: failed to insert product: %w", opn, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to get product id: %w", opn, err)
	}

	return id, nil
}

// ExistsByURL reports whether the URL is already tracked.
func (r *Repository) ExistsByURL(ctx context.Context, url string) (bool, error) {
	const opn = "repository.sqlite.ExistsByURL"

	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM products WHERE url = ?)", url).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", opn, err)
	}

	return exists, nil
}

// GetProduct returns a tracked product together with its last known sizes.
func (r *Repository) GetProduct(ctx context.Context, id int64) (*models.TrackedProduct, error) {
	const opn = "repository.sqlite.GetProduct"

	row := r.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = ?", id)

	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", opn, repository.ErrProductNotFound)
		}
		return nil, fmt.Errorf("%s: failed to scan product: %w", opn, err)
	}

	sizes, err := r.loadSizes(ctx, "SELECT product_id, size, in_stock, stock_status, price FROM stock_statuses WHERE product_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}
	product.PriorSizes = sizes[id]

	return &product, nil
}

// GetActiveProducts returns every active product with its prior per-size state.
func (r *Repository) GetActiveProducts(ctx context.Context) ([]models.TrackedProduct, error) {
	const opn = "repository.sqlite.GetActiveProducts"

	rows, err := r.db.QueryContext(ctx, "SELECT "+productColumns+" FROM products WHERE is_active = 1 ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get products: %w", opn, err)
	}
	defer rows.Close()

	var products []models.TrackedProduct
	for rows.Next() {
		product, scanErr := scanProduct(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%s: failed to scan product: %w", opn, scanErr)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", opn, err)
	}

	if len(products) == 0 {
		return products, nil
	}

	sizes, err := r.loadSizes(ctx,
		`SELECT s.product_id, s.size, s.in_stock, s.stock_status, s.price
		FROM stock_statuses s JOIN products p ON p.id = s.product_id
		WHERE p.is_active = 1`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	for i := range products {
		products[i].PriorSizes = sizes[products[i].ID]
	}

	return products, nil
}

// DeleteProduct stops tracking a product. Its stock rows and price history go with it.
func (r *Repository) DeleteProduct(ctx context.Context, id int64) error {
	const opn = "repository.sqlite.DeleteProduct"

	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get affected rows: %w", opn, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", opn, repository.ErrProductNotFound)
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (models.TrackedProduct, error) {
	var p models.TrackedProduct
	err := s.Scan(
		&p.ID, &p.URL, &p.Name, &p.ProductID, &p.DesiredSize,
		&p.Price, &p.OldPrice, &p.Discount, &p.Color, &p.ImageURL,
	)

	return p, err
}

// loadSizes runs query and groups the stock rows by product id.
func (r *Repository) loadSizes(ctx context.Context, query string, args ...any) (map[int64]map[string]models.SizeEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get stock statuses: %w", err)
	}
	defer rows.Close()

	sizes := make(map[int64]map[string]models.SizeEntry)
	for rows.Next() {
		var (
			productID int64
			entry     models.SizeEntry
			status    string
		)
		if err = rows.Scan(&productID, &entry.Size, &entry.InStock, &status, &entry.Price); err != nil {
			return nil, fmt.Errorf("failed to scan stock status: %w", err)
		}
		entry.Status = models.Availability(status)

		if sizes[productID] == nil {
			sizes[productID] = make(map[string]models.SizeEntry)
		}
		sizes[productID][entry.Size] = entry
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("stock rows iteration error: %w", err)
	}

	return sizes, nil
}
