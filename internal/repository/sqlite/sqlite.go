package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Repository stores tracked products, their per-size stock, price history and
// chat subscriptions in a SQLite database.
type Repository struct {
	db  *sql.DB
	log *slog.Logger
	now func() time.Time
}

// NewRepository opens (or creates) the database at storagePath and makes sure
// the schema exists.
func NewRepository(ctx context.Context, log *slog.Logger, storagePath string) (*Repository, error) {
	// Open (or create if it doesn't exist) the database file.
	dtb, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", storagePath))
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Check if the connection is actually established.
	if err = dtb.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("unable to establish connection to database: %w", err)
	}

	if err = initSchema(ctx, dtb); err != nil {
		return nil, fmt.Errorf("DB schema initialization error: %w", err)
	}

	return &Repository{db: dtb, log: log, now: time.Now}, nil
}

// NewForTest wraps an already opened database without touching the schema.
func NewForTest(db *sql.DB) *Repository {
	return &Repository{
		db:  db,
		log: slog.New(slog.DiscardHandler),
		now: func() time.Time { return time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC) },
	}
}

// initSchema creates the necessary tables if they don't already exist.
func initSchema(ctx context.Context, dtb *sql.DB) error {
	const migrationQuery = `
	CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT '',
		external_id TEXT NOT NULL DEFAULT '',
		desired_size TEXT NOT NULL DEFAULT '',
		price TEXT NOT NULL DEFAULT '0',
		old_price TEXT NOT NULL DEFAULT '0',
		discount TEXT NOT NULL DEFAULT '',
		color TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		last_check DATETIME
	);

	CREATE TABLE IF NOT EXISTS stock_statuses (
		product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		size TEXT NOT NULL,
		in_stock INTEGER NOT NULL,
		stock_status TEXT NOT NULL,
		price TEXT NOT NULL DEFAULT '0',
		last_updated DATETIME NOT NULL,
		PRIMARY KEY (product_id, size)
	);

	CREATE TABLE IF NOT EXISTS price_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		price TEXT NOT NULL,
		old_price TEXT NOT NULL DEFAULT '0',
		discount TEXT NOT NULL DEFAULT '',
		recorded_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_price_history_product ON price_history (product_id, recorded_at);

	CREATE TABLE IF NOT EXISTS subscriptions (
		chat_id INTEGER PRIMARY KEY
	);
	`
	_, err := dtb.ExecContext(ctx, migrationQuery)
	if err != nil {
		return fmt.Errorf("failed to execute migration query: %w", err)
	}

	return nil
}

// Close closes the connection to the database.
func (r *Repository) Close() error {
	if err := r.db.Close(); err != nil {
		r.log.Error("failed to close the database", "op", "repository.sqlite.Close", "error", err)
		return fmt.Errorf("failed to close the database: %w", err)
	}

	return nil
}

// DB is a getter for database handler.
func (r *Repository) DB() *sql.DB {
	return r.db
}
