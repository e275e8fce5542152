package storage

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*Database, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return NewDatabase(gormDB), mock, func() { sqlDB.Close() }
}

func TestDatabaseGet(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `storage_entries`").
		WithArgs(KeyTransactions).
		WillReturnRows(sqlmock.NewRows([]string{"data_key", "data_value"}).
			AddRow(KeyTransactions, `[{"id":"tx-1"}]`))

	value, err := db.Get(KeyTransactions)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"tx-1"}]`, value)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabaseGetNotFound(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `storage_entries`").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"data_key", "data_value"}))

	_, err := db.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabaseSet(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	// 已存在则覆盖
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `storage_entries`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, db.Set(KeySettings, `{"currency":"USD"}`))
	require.NoError(t, mock.ExpectationsWereMet())
}
