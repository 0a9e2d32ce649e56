package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/sheikh-saqib/zenith-bank-ledger/internal/common"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/models"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// steppingClock returns times one second apart, starting at base.
func steppingClock(base time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		t := base.Add(time.Duration(i) * time.Second)
		i++
		return t
	}
}

func TestJournal_NewestFirst(t *testing.T) {
	ctx := context.Background()
	j := NewJournal(memory.NewMemoryLedgerStore(), steppingClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))

	first, err := j.Append(ctx, "A", models.Deposit, dec("1"), "one")
	require.NoError(t, err)
	_, err = j.Append(ctx, "B", models.Deposit, dec("2"), "two")
	require.NoError(t, err)
	third, err := j.Append(ctx, "A", models.Withdrawal, dec("1"), "three")
	require.NoError(t, err)

	recs, err := j.ListByAccount(ctx, "A")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, third.ID, recs[0].ID)
	assert.Equal(t, first.ID, recs[1].ID)

	all, err := j.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "three", all[0].Description)
	assert.Equal(t, "two", all[1].Description)
	assert.Equal(t, "one", all[2].Description)

	again, _ := j.ListByAccount(ctx, "A")
	assert.Equal(t, recs, again, "listing is restartable")
}

func TestJournal_TiesKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	j := NewJournal(memory.NewMemoryLedgerStore(), func() time.Time { return fixed })

	for _, d := range []string{"a", "b", "c"} {
		_, err := j.Append(ctx, "A", models.Deposit, dec("1"), d)
		require.NoError(t, err)
	}

	recs, err := j.ListByAccount(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "a", recs[0].Description)
	assert.Equal(t, "b", recs[1].Description)
	assert.Equal(t, "c", recs[2].Description)
}

func TestJournal_RejectsBadEntries(t *testing.T) {
	ctx := context.Background()
	store := memory.NewMemoryLedgerStore()
	j := NewJournal(store, nil)

	_, err := j.Append(ctx, "A", models.Deposit, dec("0"), "zero")
	assert.ErrorIs(t, err, common.ErrInvalidAmount)

	_, err = j.Append(ctx, "A", models.TransactionType("Refund"), dec("1"), "bogus")
	assert.Error(t, err)

	_, err = j.Record(ctx,
		Entry{AccountNumber: "A", Type: models.TransferDebit, Amount: dec("1")},
		Entry{AccountNumber: "B", Type: models.TransferCredit, Amount: dec("-1")},
	)
	assert.ErrorIs(t, err, common.ErrInvalidAmount)

	all, _ := store.GetLedgerEntries(ctx)
	assert.Empty(t, all, "a rejected batch stores nothing")
}

func TestJournal_RecordSharesTimestamp(t *testing.T) {
	ctx := context.Background()
	j := NewJournal(memory.NewMemoryLedgerStore(), steppingClock(time.Now()))

	recs, err := j.Record(ctx,
		Entry{AccountNumber: "A", Type: models.TransferDebit, Amount: dec("3")},
		Entry{AccountNumber: "B", Type: models.TransferCredit, Amount: dec("3")},
	)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, recs[0].Timestamp, recs[1].Timestamp)
	assert.Equal(t, models.TransferDebit, recs[0].Type)
}
