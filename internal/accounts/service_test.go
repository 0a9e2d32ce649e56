package accounts

import (
	"context"
	"errors"
	"testing"

	"github.com/sheikh-saqib/zenith-bank-ledger/internal/common"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/logging"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/storage/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequence returns a generator that replays numbers in order.
func sequence(numbers ...string) NumberGenerator {
	i := 0
	return func() (string, error) {
		n := numbers[i%len(numbers)]
		i++
		return n, nil
	}
}

func TestRandomNumber_Format(t *testing.T) {
	for i := 0; i < 50; i++ {
		n, err := RandomNumber()
		require.NoError(t, err)
		require.Len(t, n, NumberLength)
		assert.NotEqual(t, byte('0'), n[0])
		for _, c := range n {
			assert.True(t, c >= '0' && c <= '9', "non-digit in %q", n)
		}
	}
}

func TestOpen_ZeroBalance(t *testing.T) {
	ctx := context.Background()
	s := NewService(memory.NewMemoryAccountStore(), nil, 5, logging.NewDiscardLogger())

	a, err := s.Open(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, a.Number, NumberLength)
	assert.True(t, a.Balance.IsZero())

	byUser, err := s.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, a.Number, byUser.Number)

	_, err = s.Open(ctx, "u1")
	assert.ErrorIs(t, err, common.ErrAccountExists)
}

func TestOpen_RetriesOnCollision(t *testing.T) {
	ctx := context.Background()
	s := NewService(memory.NewMemoryAccountStore(), sequence("1111111111", "1111111111", "2222222222"), 3, logging.NewDiscardLogger())

	first, err := s.Open(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "1111111111", first.Number)

	second, err := s.Open(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, "2222222222", second.Number, "collision must be redrawn")
}

func TestOpen_GivesUpAfterAttempts(t *testing.T) {
	ctx := context.Background()
	s := NewService(memory.NewMemoryAccountStore(), sequence("1111111111"), 3, logging.NewDiscardLogger())

	_, err := s.Open(ctx, "u1")
	require.NoError(t, err)

	_, err = s.Open(ctx, "u2")
	assert.ErrorIs(t, err, common.ErrAccountCreationFailed)

	_, err = s.FindByUserID(ctx, "u2")
	assert.ErrorIs(t, err, common.ErrAccountNotFound)
}

func TestOpen_GeneratorError(t *testing.T) {
	s := NewService(memory.NewMemoryAccountStore(), func() (string, error) {
		return "", errors.New("entropy exhausted")
	}, 2, logging.NewDiscardLogger())

	_, err := s.Open(context.Background(), "u1")
	assert.ErrorIs(t, err, common.ErrAccountCreationFailed)
}

func TestAdjustBalance(t *testing.T) {
	ctx := context.Background()
	s := NewService(memory.NewMemoryAccountStore(), sequence("1234567890"), 1, logging.NewDiscardLogger())
	a, err := s.Open(ctx, "u1")
	require.NoError(t, err)

	got, err := s.AdjustBalance(ctx, a.Number, decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Equal(t, "100.00", got.Balance.StringFixed(2))

	_, err = s.AdjustBalance(ctx, a.Number, decimal.NewFromInt(-101))
	assert.ErrorIs(t, err, common.ErrInsufficientFunds)

	_, err = s.AdjustBalance(ctx, "0000000000", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, common.ErrAccountNotFound)

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "100.00", all[0].Balance.StringFixed(2))
}
