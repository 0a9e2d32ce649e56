package storage

import (
	"context"
	"testing"
	"time"

	"github.com/sheikh-saqib/zenith-bank-ledger/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStores_RestoreThenSnapshot(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStores()

	in := models.Snapshot{
		Users: []models.User{
			{ID: "u2", Email: "b@example.com", Role: models.RoleUser},
			{ID: "u1", Email: "a@example.com", Role: models.RoleUser},
		},
		Accounts: []models.Account{
			{Number: "2222222222", UserID: "u2", Balance: decimal.NewFromInt(5)},
			{Number: "1111111111", UserID: "u1", Balance: decimal.Zero},
		},
		Transactions: []models.Transaction{
			{ID: "t1", AccountNumber: "2222222222", Type: models.Deposit, Amount: decimal.NewFromInt(5), Timestamp: time.Now()},
		},
	}
	require.NoError(t, s.Restore(ctx, in))

	out, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"u2", "u1"}, []string{out.Users[0].ID, out.Users[1].ID}, "insertion order is kept")
	assert.Equal(t, "2222222222", out.Accounts[0].Number)
	require.Len(t, out.Transactions, 1)

	acc, err := s.Accounts.GetAccountByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "1111111111", acc.Number)
}

func TestStores_RestoreReplacesPreviousState(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStores()
	require.NoError(t, s.Users.CreateUser(ctx, models.User{ID: "old", Email: "old@example.com"}))

	require.NoError(t, s.Restore(ctx, models.Snapshot{}))

	users, err := s.Users.GetUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
	_, err = s.Users.GetUserByEmail(ctx, "old@example.com")
	assert.Error(t, err)
}
