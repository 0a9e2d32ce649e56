package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoreWithMock(t *testing.T) (*PostgresSnapshotStore, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresSnapshotStore(db), mock, db
}

func sampleSnapshot() models.Snapshot {
	return models.Snapshot{
		Users: []models.User{
			{ID: "u1", Name: "Alice", Email: "alice@example.com", PasswordHash: "h", PinHash: "p", Role: models.RoleUser},
		},
		Accounts: []models.Account{
			{Number: "1111111111", UserID: "u1", Balance: decimal.NewFromInt(25)},
		},
		Transactions: []models.Transaction{
			{ID: "t1", AccountNumber: "1111111111", Type: models.Deposit, Amount: decimal.NewFromInt(25),
				Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), Description: "Deposit of $25.00"},
		},
	}
}

func TestMigrate(t *testing.T) {
	store, mock, db := newStoreWithMock(t)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS users`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())

	// balances grow past any single amount, so money columns carry no precision cap
	assert.NotContains(t, schema, "NUMERIC(")
}

func TestSaveSnapshot_CommitsEverything(t *testing.T) {
	store, mock, db := newStoreWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`^DELETE FROM transactions$`).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`^DELETE FROM accounts$`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`^DELETE FROM users$`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(0, "u1", "Alice", "alice@example.com", "h", "p", "user").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO accounts`).
		WithArgs(0, "1111111111", "u1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO transactions`).
		WithArgs(0, "t1", "1111111111", "Deposit", sqlmock.AnyArg(), sqlmock.AnyArg(), "Deposit of $25.00").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, store.SaveSnapshot(context.Background(), sampleSnapshot()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveSnapshot_RollsBackOnError(t *testing.T) {
	store, mock, db := newStoreWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`^DELETE FROM transactions$`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`^DELETE FROM accounts$`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`^DELETE FROM users$`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO users`).WillReturnError(errors.New("db down"))
	mock.ExpectRollback()

	err := store.SaveSnapshot(context.Background(), sampleSnapshot())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadSnapshot_EmptyDatabase(t *testing.T) {
	store, mock, db := newStoreWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name, email, password_hash, pin_hash, role FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "pin_hash", "role"}))

	snap, err := store.LoadSnapshot(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadSnapshot_ReadsAllTables(t *testing.T) {
	store, mock, db := newStoreWithMock(t)
	defer db.Close()

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(`FROM users ORDER BY seq`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "pin_hash", "role"}).
			AddRow("u1", "Alice", "alice@example.com", "h", "p", "user"))
	mock.ExpectQuery(`FROM accounts ORDER BY seq`).
		WillReturnRows(sqlmock.NewRows([]string{"account_number", "user_id", "balance"}).
			AddRow("1111111111", "u1", "25.00"))
	mock.ExpectQuery(`FROM transactions ORDER BY seq`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_number", "type", "amount", "created_at", "description"}).
			AddRow("t1", "1111111111", "Deposit", "25.00", ts, "Deposit of $25.00"))

	snap, err := store.LoadSnapshot(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, models.RoleUser, snap.Users[0].Role)
	assert.True(t, snap.Accounts[0].Balance.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, models.Deposit, snap.Transactions[0].Type)
	assert.True(t, snap.Transactions[0].Timestamp.Equal(ts))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadSnapshot_QueryError(t *testing.T) {
	store, mock, db := newStoreWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM users`).WillReturnError(errors.New("db down"))

	_, err := store.LoadSnapshot(context.Background())
	assert.Error(t, err)
}
