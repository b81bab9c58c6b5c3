package sqlite_test

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Integration Tests (using a real temporary database)
// =============================================================================

func TestRepository_Integration_Subscriptions(t *testing.T) {
	repo := newTestDB(t)
	ctx := t.Context()

	added, err := repo.SubscribeChat(ctx, 42)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.SubscribeChat(ctx, 42)
	require.NoError(t, err)
	assert.False(t, added, "second subscription is a no-op")

	_, err = repo.SubscribeChat(ctx, -7)
	require.NoError(t, err)

	chats, err := repo.GetSubscribedChats(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{-7, 42}, chats)

	removed, err := repo.UnsubscribeChat(ctx, 42)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.UnsubscribeChat(ctx, 42)
	require.NoError(t, err)
	assert.False(t, removed)

	chats, err = repo.GetSubscribedChats(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{-7}, chats)
}

// =============================================================================
// Unit Tests (using sqlmock for failure scenarios)
// =============================================================================

func TestSubscribeChat(t *testing.T) {
	ctx := t.Context()
	chatID := int64(-123456789)

	t.Run("error: exec query", func(t *testing.T) {
		// Arrange
		repo, mock := newMockedRepo(t)
		mock.ExpectExec("INSERT OR IGNORE INTO subscriptions").WillReturnError(assert.AnError)

		// Act
		_, err := repo.SubscribeChat(ctx, chatID)

		// Assert
		require.ErrorContains(t, err, "repository.sqlite.SubscribeChat")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error: affected rows", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectExec("INSERT OR IGNORE INTO subscriptions").
			WillReturnResult(sqlmock.NewErrorResult(errors.New("no row count")))

		_, err := repo.SubscribeChat(ctx, chatID)

		require.ErrorContains(t, err, "failed to get affected rows")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success", func(t *testing.T) {
		// Arrange
		repo, mock := newMockedRepo(t)
		mock.ExpectExec("INSERT OR IGNORE INTO subscriptions").
			WithArgs(chatID).
			WillReturnResult(sqlmock.NewResult(1, 1))

		// Act
		added, err := repo.SubscribeChat(ctx, chatID)

		// Assert
		require.NoError(t, err)
		assert.True(t, added)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUnsubscribeChat(t *testing.T) {
	ctx := t.Context()
	chatID := int64(-123456789)

	t.Run("error: exec query", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectExec("DELETE FROM subscriptions WHERE chat_id").WillReturnError(assert.AnError)

		_, err := repo.UnsubscribeChat(ctx, chatID)

		require.ErrorContains(t, err, "repository.sqlite.UnsubscribeChat")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not subscribed", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectExec("DELETE FROM subscriptions WHERE chat_id").WillReturnResult(sqlmock.NewResult(0, 0))

		removed, err := repo.UnsubscribeChat(ctx, chatID)

		require.NoError(t, err)
		assert.False(t, removed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetSubscribedChats(t *testing.T) {
	ctx := t.Context()
	chatID := int64(-123456789)

	t.Run("error: cannot execute query", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		mock.ExpectQuery("SELECT chat_id FROM subscriptions").WillReturnError(assert.AnError)

		_, err := repo.GetSubscribedChats(ctx)

		require.ErrorContains(t, err, "repository.sqlite.GetSubscribedChats")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error: failed to scan chat_id", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		invalidRow := sqlmock.NewRows([]string{"chat_id"}).AddRow("invalid_id")
		mock.ExpectQuery("SELECT chat_id FROM subscriptions").WillReturnRows(invalidRow)

		_, err := repo.GetSubscribedChats(ctx)

		require.ErrorContains(t, err, "failed to scan chat_id")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error: rows error", func(t *testing.T) {
		repo, mock := newMockedRepo(t)
		rowWithErr := sqlmock.NewRows([]string{"chat_id"}).AddRow(chatID).RowError(0, assert.AnError)
		mock.ExpectQuery("SELECT chat_id FROM subscriptions").WillReturnRows(rowWithErr)

		_, err := repo.GetSubscribedChats(ctx)

		require.ErrorContains(t, err, "rows iteration error")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
