package sqlite_test

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Houeta/stock-flow/internal/repository/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestDB creates a repository backed by a temporary database file.
func newTestDB(t *testing.T) *sqlite.Repository {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	repo, err := sqlite.NewRepository(t.Context(), logger, dbPath)
	require.NoError(t, err, "failed to create test database")

	t.Cleanup(func() {
		if err = repo.Close(); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})

	return repo
}

// newMockedRepo creates a repository with a mocked database connection for testing failures.
func newMockedRepo(t *testing.T) (*sqlite.Repository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := sqlite.NewForTest(mockDB)

	t.Cleanup(func() { mockDB.Close() })

	return repo, mock
}

func TestNewRepository_InvalidPath(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := sqlite.NewRepository(t.Context(), logger, "/invalid/path/to/db.sqlite")

	require.Error(t, err)
}

func TestRepository_Close(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	repo, err := sqlite.NewRepository(t.Context(), logger, filepath.Join(t.TempDir(), "close.sqlite"))
	require.NoError(t, err)

	require.NoError(t, repo.Close())
}

func TestSchemaInitialization(t *testing.T) {
	repo := newTestDB(t)

	rows, err := repo.DB().QueryContext(t.Context(), "SELECT name FROM sqlite_master WHERE type='table'")
	require.NoError(t, err)
	defer rows.Close()

	found := make(map[string]bool)
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	require.NoError(t, rows.Err())

	for _, table := range []string{"products", "stock_statuses", "price_history", "subscriptions"} {
		assert.True(t, found[table], "table %s is missing", table)
	}
}

func TestSchemaInitialization_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reopen.sqlite")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	first, err := sqlite.NewRepository(t.Context(), logger, dbPath)
	require.NoError(t, err)
	_, err = first.SubscribeChat(t.Context(), 1)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := sqlite.NewRepository(t.Context(), logger, dbPath)
	require.NoError(t, err)
	defer second.Close()

	chats, err := second.GetSubscribedChats(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, chats)
}
