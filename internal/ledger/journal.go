package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/common"
	interfaces "github.com/sheikh-saqib/zenith-bank-ledger/internal/interfaces"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/models"
	"github.com/shopspring/decimal"
)

// Entry describes a record to append; the Journal fills in id and timestamp.
type Entry struct {
	AccountNumber string
	Type          models.TransactionType
	Amount        decimal.Decimal
	Description   string
}

// Journal is the append-only transaction log.
type Journal struct {
	store interfaces.LedgerStore
	now   func() time.Time
}

// NewJournal builds a Journal over store. A nil clock means time.Now.
func NewJournal(store interfaces.LedgerStore, now func() time.Time) *Journal {
	if now == nil {
		now = time.Now
	}
	return &Journal{store: store, now: now}
}

// Append records a single entry.
func (j *Journal) Append(ctx context.Context, accountNumber string, kind models.TransactionType, amount decimal.Decimal, description string) (*models.Transaction, error) {
	recs, err := j.Record(ctx, Entry{AccountNumber: accountNumber, Type: kind, Amount: amount, Description: description})
	if err != nil {
		return nil, err
	}
	return &recs[0], nil
}

// Record appends all entries as one unit, sharing a single timestamp, in the
// order given.
func (j *Journal) Record(ctx context.Context, entries ...Entry) ([]models.Transaction, error) {
	now := j.now()
	recs := make([]models.Transaction, 0, len(entries))
	for _, e := range entries {
		if !e.Amount.IsPositive() {
			return nil, common.ErrInvalidAmount
		}
		if !e.Type.Valid() {
			return nil, fmt.Errorf("unknown transaction type %q", e.Type)
		}
		recs = append(recs, models.Transaction{
			ID:            uuid.New().String(),
			AccountNumber: e.AccountNumber,
			Type:          e.Type,
			Amount:        e.Amount,
			Timestamp:     now,
			Description:   e.Description,
		})
	}

	if err := j.store.SaveEntries(ctx, recs...); err != nil {
		return nil, fmt.Errorf("error saving ledger entries: %w", err)
	}
	return recs, nil
}

// ListByAccount returns the account's records, newest first. Records with equal
// timestamps keep their insertion order.
func (j *Journal) ListByAccount(ctx context.Context, accountNumber string) ([]models.Transaction, error) {
	recs, err := j.store.GetEntriesByAccount(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	newestFirst(recs)
	return recs, nil
}

// ListAll returns every record with the same ordering as ListByAccount.
func (j *Journal) ListAll(ctx context.Context) ([]models.Transaction, error) {
	recs, err := j.store.GetLedgerEntries(ctx)
	if err != nil {
		return nil, err
	}
	newestFirst(recs)
	return recs, nil
}

func newestFirst(recs []models.Transaction) {
	sort.SliceStable(recs, func(a, b int) bool {
		return recs[a].Timestamp.After(recs[b].Timestamp)
	})
}
