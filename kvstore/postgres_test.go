package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(db), mock
}

func TestPostgresStore_Get(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM kv_store WHERE key = $1`)).
		WithArgs("@products").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("[]"))

	value, found, err := s.Get(context.Background(), "@products")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "[]", value)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetMissing(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM kv_store WHERE key = $1`)).
		WithArgs("@ratings").
		WillReturnError(sql.ErrNoRows)

	_, found, err := s.Get(context.Background(), "@ratings")
	require.NoError(t, err)
	assert.False(t, found)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetFailureIsUnavailable(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM kv_store`)).
		WillReturnError(errors.New("connection reset"))

	_, _, err := s.Get(context.Background(), "@users")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestPostgresStore_SetUpserts(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO kv_store`).
		WithArgs("@cart_items", `[{"id":"x"}]`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Set(context.Background(), "@cart_items", `[{"id":"x"}]`))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_RemoveUsesTransaction(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM kv_store WHERE key = $1`)).
		WithArgs("@products").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM kv_store WHERE key = $1`)).
		WithArgs("@products_meta").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	require.NoError(t, s.Remove(context.Background(), "@products", "@products_meta"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_RemoveRollsBackOnError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM kv_store WHERE key = $1`)).
		WithArgs("a").WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	err := s.Remove(context.Background(), "a", "b")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListKeys(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT key FROM kv_store ORDER BY key ASC`)).
		WillReturnRows(sqlmock.NewRows([]string{"key"}).AddRow("@users").AddRow("nlk:a@b.c:orders"))

	keys, err := s.ListKeys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"@users", "nlk:a@b.c:orders"}, keys)
	require.NoError(t, mock.ExpectationsWereMet())
}
