package memory

import (
	"context"
	"testing"
	"time"

	"github.com/sheikh-saqib/zenith-bank-ledger/internal/common"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLedgerStore_FilterAndCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryLedgerStore()

	now := time.Now()
	require.NoError(t, s.SaveEntries(ctx, models.Transaction{ID: "1", AccountNumber: "A", Type: models.Deposit, Amount: decimal.NewFromInt(5), Timestamp: now}))
	require.NoError(t, s.SaveEntries(ctx,
		models.Transaction{ID: "2", AccountNumber: "B", Type: models.Deposit, Amount: decimal.NewFromInt(7), Timestamp: now},
		models.Transaction{ID: "3", AccountNumber: "A", Type: models.Withdrawal, Amount: decimal.NewFromInt(1), Timestamp: now},
	))

	byA, err := s.GetEntriesByAccount(ctx, "A")
	require.NoError(t, err)
	require.Len(t, byA, 2)
	assert.Equal(t, "1", byA[0].ID)
	assert.Equal(t, "3", byA[1].ID)

	none, err := s.GetEntriesByAccount(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)

	all, err := s.GetLedgerEntries(ctx)
	require.NoError(t, err)
	all[0].Description = "tampered"

	again, _ := s.GetLedgerEntries(ctx)
	assert.Empty(t, again[0].Description)

	require.NoError(t, s.ReplaceEntries(ctx, []models.Transaction{{ID: "x", AccountNumber: "C"}}))
	again, _ = s.GetLedgerEntries(ctx)
	require.Len(t, again, 1)
	assert.Equal(t, "x", again[0].ID)
}

func TestMemoryAccountStore_CreateAndAdjust(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryAccountStore()

	require.NoError(t, s.CreateAccount(ctx, models.Account{Number: "1000000001", UserID: "u1"}))
	assert.ErrorIs(t, s.CreateAccount(ctx, models.Account{Number: "1000000001", UserID: "u2"}), common.ErrAccountExists)
	assert.ErrorIs(t, s.CreateAccount(ctx, models.Account{Number: "1000000002", UserID: "u1"}), common.ErrAccountExists)

	a, err := s.AdjustBalance(ctx, "1000000001", decimal.RequireFromString("10.50"))
	require.NoError(t, err)
	assert.True(t, a.Balance.Equal(decimal.RequireFromString("10.50")))

	_, err = s.AdjustBalance(ctx, "1000000001", decimal.RequireFromString("-10.51"))
	assert.ErrorIs(t, err, common.ErrInsufficientFunds)

	got, err := s.GetAccountByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("10.50")), "failed adjustment must not change balance")

	_, err = s.AdjustBalance(ctx, "nope", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, common.ErrAccountNotFound)

	_, err = s.GetAccountByNumber(ctx, "nope")
	assert.ErrorIs(t, err, common.ErrAccountNotFound)
}

func TestMemoryUserStore_EmailUniquenessAndPinSwap(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryUserStore()

	require.NoError(t, s.CreateUser(ctx, models.User{ID: "u1", Email: "a@b.c", PinHash: "h1"}))
	assert.ErrorIs(t, s.CreateUser(ctx, models.User{ID: "u2", Email: "a@b.c"}), common.ErrDuplicateEmail)
	require.NoError(t, s.CreateUser(ctx, models.User{ID: "u3", Email: "A@b.c"}), "email match is case-sensitive")

	assert.ErrorIs(t, s.UpdatePin(ctx, "u1", "stale", "h2"), common.ErrIncorrectPin)
	require.NoError(t, s.UpdatePin(ctx, "u1", "h1", "h2"))
	u, err := s.GetUserByEmail(ctx, "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, "h2", u.PinHash)

	require.NoError(t, s.DeleteUser(ctx, "u1"))
	_, err = s.GetUserByID(ctx, "u1")
	assert.ErrorIs(t, err, common.ErrUserNotFound)
	require.NoError(t, s.CreateUser(ctx, models.User{ID: "u4", Email: "a@b.c"}))

	users, err := s.GetUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "u3", users[0].ID)
	assert.Equal(t, "u4", users[1].ID)
}

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySessionStore()

	ok, _ := s.IsRemembered(ctx, "u1")
	assert.False(t, ok)

	require.NoError(t, s.Remember(ctx, "u1"))
	ok, _ = s.IsRemembered(ctx, "u1")
	assert.True(t, ok)

	require.NoError(t, s.Forget(ctx, "u1"))
	ok, _ = s.IsRemembered(ctx, "u1")
	assert.False(t, ok)
}
