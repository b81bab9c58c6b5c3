package sqlite_test

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Houeta/stock-flow/internal/models"
	"github.com/Houeta/stock-flow/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotWithPrice(price string, sizes ...models.SizeEntry) *models.Snapshot {
	return &models.Snapshot{
		ProductID:     "301239846",
		Name:          "LINEN SHIRT",
		Price:         decimal.RequireFromString(price),
		OldPrice:      decimal.RequireFromString("1299.99"),
		DiscountLabel: "-23%",
		Color:         "ECRU",
		Sizes:         sizes,
	}
}

// =============================================================================
// Integration Tests (using a real temporary database)
// =============================================================================

func TestRepository_Integration_SaveSnapshot(t *testing.T) {
	repo := newTestDB(t)
	ctx := t.Context()

	id, err := repo.AddProduct(ctx, newShirt("https://www.zara.com/tr/en/linen-shirt-p04786162.html?v1=301239846"))
	require.NoError(t, err)

	t.Run("same_price_adds_no_history", func(t *testing.T) {
		err = repo.SaveSnapshot(ctx, id, snapshotWithPrice("1299.99",
			models.SizeEntry{Size: "S", InStock: true, Status: models.InStock},
			models.SizeEntry{Size: "M", InStock: false, Status: models.OutOfStock},
		))
		require.NoError(t, err)

		history, histErr := repo.GetPriceHistory(ctx, id, 10)
		require.NoError(t, histErr)
		assert.Empty(t, history)
	})

	t.Run("price_drop_is_recorded", func(t *testing.T) {
		err = repo.SaveSnapshot(ctx, id, snapshotWithPrice("999.99",
			models.SizeEntry{Size: "M", InStock: true, Status: models.InStock},
		))
		require.NoError(t, err)

		history, histErr := repo.GetPriceHistory(ctx, id, 10)
		require.NoError(t, histErr)
		require.Len(t, history, 1)
		assert.Equal(t, "999.99", history[0].Price.StringFixed(2))
		assert.Equal(t, "-23%", history[0].Discount)
		assert.False(t, history[0].RecordedAt.IsZero())
	})

	t.Run("state_is_upserted", func(t *testing.T) {
		product, getErr := repo.GetProduct(ctx, id)
		require.NoError(t, getErr)

		assert.Equal(t, "999.99", product.Price.StringFixed(2))
		assert.Equal(t, "ECRU", product.Color)
		require.Len(t, product.PriorSizes, 2, "sizes missing from a snapshot keep their last state")
		assert.True(t, product.PriorSizes["S"].InStock)
		assert.True(t, product.PriorSizes["M"].InStock)
	})

	t.Run("second_change_is_newest_first", func(t *testing.T) {
		require.NoError(t, repo.SaveSnapshot(ctx, id, snapshotWithPrice("899.99")))

		history, histErr := repo.GetPriceHistory(ctx, id, 10)
		require.NoError(t, histErr)
		require.Len(t, history, 2)
		assert.Equal(t, "899.99", history[0].Price.StringFixed(2))

		limited, histErr := repo.GetPriceHistory(ctx, id, 1)
		require.NoError(t, histErr)
		assert.Len(t, limited, 1)
	})

	t.Run("unknown_product", func(t *testing.T) {
		err = repo.SaveSnapshot(ctx, id+100, snapshotWithPrice("1"))
		require.ErrorIs(t, err, repository.ErrProductNotFound)
	})
}

// =============================================================================
// Unit Tests (using sqlmock for failure scenarios)
// =============================================================================

func TestRepository_SaveSnapshot_Failures(t *testing.T) {
	ctx := t.Context()
	snapshot := snapshotWithPrice("999.99", models.SizeEntry{Size: "M", InStock: true, Status: models.InStock})

	expectPrice := func(mock sqlmock.Sqlmock) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT price FROM products").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow("1299.99"))
	}

	t.Run("error_on_begin_transaction", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectBegin().WillReturnError(errors.New("cannot start transaction"))

		err := repo.SaveSnapshot(ctx, 1, snapshot)

		assert.ErrorContains(t, err, "failed to begin transaction")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_on_previous_price", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT price FROM products").WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err := repo.SaveSnapshot(ctx, 1, snapshot)

		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to get previous price")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_on_prepare_query", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		expectPrice(mock)
		mock.ExpectPrepare("INSERT INTO stock_statuses").WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err := repo.SaveSnapshot(ctx, 1, snapshot)

		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to prepare stock statement")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_on_upsert", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		expectPrice(mock)
		prep := mock.ExpectPrepare("INSERT INTO stock_statuses")
		prep.ExpectExec().
			WithArgs(int64(1), "M", true, "in_stock", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err := repo.SaveSnapshot(ctx, 1, snapshot)

		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to upsert stock for size M")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_on_update_product", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		expectPrice(mock)
		prep := mock.ExpectPrepare("INSERT INTO stock_statuses")
		prep.ExpectExec().WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("UPDATE products SET").WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err := repo.SaveSnapshot(ctx, 1, snapshot)

		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to update product")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_on_price_history", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		expectPrice(mock)
		prep := mock.ExpectPrepare("INSERT INTO stock_statuses")
		prep.ExpectExec().WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("UPDATE products SET").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO price_history").WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err := repo.SaveSnapshot(ctx, 1, snapshot)

		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to insert price history")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_on_commit", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		expectPrice(mock)
		prep := mock.ExpectPrepare("INSERT INTO stock_statuses")
		prep.ExpectExec().WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("UPDATE products SET").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO price_history").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

		err := repo.SaveSnapshot(ctx, 1, snapshot)

		assert.ErrorContains(t, err, "failed to commit transaction")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_GetPriceHistory_Failures(t *testing.T) {
	ctx := t.Context()

	t.Run("error_on_query", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectQuery("SELECT price, old_price, discount, recorded_at FROM price_history").
			WillReturnError(assert.AnError)

		_, err := repo.GetPriceHistory(ctx, 1, 5)

		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_on_scan", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		rows := sqlmock.NewRows([]string{"price", "old_price", "discount", "recorded_at"}).
			AddRow("cheap", "0", "", "yesterday")
		mock.ExpectQuery("SELECT price, old_price").WillReturnRows(rows)

		_, err := repo.GetPriceHistory(ctx, 1, 5)

		assert.ErrorContains(t, err, "failed to scan price record")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
