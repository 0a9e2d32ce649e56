// Package ledger executes deposits, withdrawals and transfers. Each operation
// changes balances and appends ledger records as one unit: either every step
// is applied or none is visible.
package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sheikh-saqib/zenith-bank-ledger/internal/common"
	interfaces "github.com/sheikh-saqib/zenith-bank-ledger/internal/interfaces"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/logging"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/models"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/models/events"
	"github.com/shopspring/decimal"
)

// AccountBook is the part of the account store the engine needs.
type AccountBook interface {
	FindByNumber(ctx context.Context, number string) (*models.Account, error)
	AdjustBalance(ctx context.Context, number string, delta decimal.Decimal) (*models.Account, error)
}

// Ledger is the transaction engine.
// It holds the account book, the journal and one mutex per account number.
type Ledger struct {
	accounts  AccountBook
	journal   *Journal
	publisher interfaces.EventPublisher // optional
	topic     string
	log       logging.Logger

	muMap   map[string]*sync.Mutex // stores the *sync.Mutex for each account in a map
	mapMu   sync.Mutex             // protects the muMap itself
	storeMu sync.RWMutex           // shared by operations, exclusive for whole-store replacement
}

// NewLedger creates the engine. publisher may be nil to disable events.
func NewLedger(accounts AccountBook, journal *Journal, publisher interfaces.EventPublisher, topic string, log logging.Logger) *Ledger {
	return &Ledger{
		accounts:  accounts,
		journal:   journal,
		publisher: publisher,
		topic:     topic,
		log:       log.With("component", "ledger"),
		muMap:     make(map[string]*sync.Mutex),
	}
}

func (l *Ledger) getAccountLock(accountNumber string) *sync.Mutex {

	l.mapMu.Lock()
	defer l.mapMu.Unlock()

	if _, exists := l.muMap[accountNumber]; !exists {
		l.muMap[accountNumber] = &sync.Mutex{}
	}
	return l.muMap[accountNumber]
}

// withAccounts runs fn while holding the lock of every listed account.
// Locks are always taken in ascending account-number order so two transfers
// in opposite directions cannot deadlock.
func (l *Ledger) withAccounts(fn func() error, numbers ...string) error {
	l.storeMu.RLock()
	defer l.storeMu.RUnlock()

	ordered := append([]string(nil), numbers...)
	sort.Strings(ordered)

	for i, n := range ordered {
		if i > 0 && n == ordered[i-1] {
			continue
		}
		mu := l.getAccountLock(n)
		mu.Lock()
		defer mu.Unlock()
	}
	return fn()
}

// MaxAmount is the largest amount a single operation may move.
var MaxAmount = decimal.New(1, 12)

// ValidateAmount accepts positive amounts with at most two decimal places, up
// to MaxAmount.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() || !amount.Equal(amount.Truncate(2)) || amount.GreaterThan(MaxAmount) {
		return common.ErrInvalidAmount
	}
	return nil
}

// Deposit credits amount to the account and records a Deposit entry.
func (l *Ledger) Deposit(ctx context.Context, number string, amount decimal.Decimal) (*models.Transaction, error) {
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}

	var rec *models.Transaction
	err := l.withAccounts(func() error {
		if _, err := l.accounts.AdjustBalance(ctx, number, amount); err != nil {
			return err
		}
		var err error
		rec, err = l.journal.Append(ctx, number, models.Deposit, amount, "Deposit of $"+amount.StringFixed(2))
		if err != nil {
			l.revert(ctx, number, amount.Neg())
			return err
		}
		return nil
	}, number)
	if err != nil {
		l.log.Warn(ctx, "deposit rejected", "account", number, "amount", amount.StringFixed(2), "error", err)
		return nil, err
	}

	l.log.Info(ctx, "deposit committed", "account", number, "amount", amount.StringFixed(2))
	l.publish(ctx, events.TransactionCompleted{
		Operation:      "deposit",
		TransactionIDs: []string{rec.ID},
		ToAccount:      number,
		Amount:         amount,
		OccurredAt:     rec.Timestamp,
	})
	return rec, nil
}

// Withdraw debits amount from the account and records a Withdrawal entry.
// The balance never goes below zero.
func (l *Ledger) Withdraw(ctx context.Context, number string, amount decimal.Decimal) (*models.Transaction, error) {
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}

	var rec *models.Transaction
	err := l.withAccounts(func() error {
		if _, err := l.accounts.AdjustBalance(ctx, number, amount.Neg()); err != nil {
			return err
		}
		var err error
		rec, err = l.journal.Append(ctx, number, models.Withdrawal, amount, "Withdrawal of $"+amount.StringFixed(2))
		if err != nil {
			l.revert(ctx, number, amount)
			return err
		}
		return nil
	}, number)
	if err != nil {
		l.log.Warn(ctx, "withdrawal rejected", "account", number, "amount", amount.StringFixed(2), "error", err)
		return nil, err
	}

	l.log.Info(ctx, "withdrawal committed", "account", number, "amount", amount.StringFixed(2))
	l.publish(ctx, events.TransactionCompleted{
		Operation:      "withdrawal",
		TransactionIDs: []string{rec.ID},
		FromAccount:    number,
		Amount:         amount,
		OccurredAt:     rec.Timestamp,
	})
	return rec, nil
}

// Transfer moves amount between two accounts. It returns the debit and the
// credit record, which are appended together.
func (l *Ledger) Transfer(ctx context.Context, from, to string, amount decimal.Decimal) (debit, credit *models.Transaction, err error) {
	if err := ValidateAmount(amount); err != nil {
		return nil, nil, err
	}
	if from == to {
		return nil, nil, common.ErrSameAccount
	}

	err = l.withAccounts(func() error {
		if _, err := l.accounts.FindByNumber(ctx, from); err != nil {
			return fmt.Errorf("source %s: %w", from, err)
		}
		if _, err := l.accounts.FindByNumber(ctx, to); err != nil {
			return fmt.Errorf("destination %s: %w", to, err)
		}

		if _, err := l.accounts.AdjustBalance(ctx, from, amount.Neg()); err != nil {
			return err
		}
		if _, err := l.accounts.AdjustBalance(ctx, to, amount); err != nil {
			l.revert(ctx, from, amount)
			return err
		}

		recs, err := l.journal.Record(ctx,
			Entry{AccountNumber: from, Type: models.TransferDebit, Amount: amount, Description: "Transfer to " + to},
			Entry{AccountNumber: to, Type: models.TransferCredit, Amount: amount, Description: "Transfer from " + from},
		)
		if err != nil {
			l.revert(ctx, to, amount.Neg())
			l.revert(ctx, from, amount)
			return err
		}
		debit, credit = &recs[0], &recs[1]
		return nil
	}, from, to)
	if err != nil {
		l.log.Warn(ctx, "transfer rejected", "from", from, "to", to, "amount", amount.StringFixed(2), "error", err)
		return nil, nil, err
	}

	l.log.Info(ctx, "transfer committed", "from", from, "to", to, "amount", amount.StringFixed(2))
	l.publish(ctx, events.TransactionCompleted{
		Operation:      "transfer",
		TransactionIDs: []string{debit.ID, credit.ID},
		FromAccount:    from,
		ToAccount:      to,
		Amount:         amount,
		OccurredAt:     debit.Timestamp,
	})
	return debit, credit, nil
}

// revert undoes a balance change made earlier in the same locked scope.
func (l *Ledger) revert(ctx context.Context, number string, delta decimal.Decimal) {
	if _, err := l.accounts.AdjustBalance(ctx, number, delta); err != nil {
		l.log.Error(ctx, "failed to revert balance change", "account", number, "delta", delta.String(), "error", err)
	}
}

// Balance reads the account under its lock, so it never observes an operation
// halfway through.
func (l *Ledger) Balance(ctx context.Context, number string) (*models.Account, error) {
	var account *models.Account
	err := l.withAccounts(func() error {
		var err error
		account, err = l.accounts.FindByNumber(ctx, number)
		return err
	}, number)
	return account, err
}

// History lists the account's records, newest first.
func (l *Ledger) History(ctx context.Context, number string) ([]models.Transaction, error) {
	var recs []models.Transaction
	err := l.withAccounts(func() error {
		if _, err := l.accounts.FindByNumber(ctx, number); err != nil {
			return err
		}
		var err error
		recs, err = l.journal.ListByAccount(ctx, number)
		return err
	}, number)
	return recs, err
}

// AccountWithHistory reads the account and its records in one locked scope, so
// the balance always matches the records returned with it.
func (l *Ledger) AccountWithHistory(ctx context.Context, number string) (*models.Account, []models.Transaction, error) {
	var (
		account *models.Account
		recs    []models.Transaction
	)
	err := l.withAccounts(func() error {
		var err error
		if account, err = l.accounts.FindByNumber(ctx, number); err != nil {
			return err
		}
		recs, err = l.journal.ListByAccount(ctx, number)
		return err
	}, number)
	if err != nil {
		return nil, nil, err
	}
	return account, recs, nil
}

// GetLedgerEntries lists every record of every account, newest first.
func (l *Ledger) GetLedgerEntries(ctx context.Context) ([]models.Transaction, error) {
	l.storeMu.RLock()
	defer l.storeMu.RUnlock()

	return l.journal.ListAll(ctx)
}

// Shared runs fn alongside engine operations but never during Exclusive. It is
// for multi-step store changes outside the engine, such as a registration that
// creates a user and then the account. fn must not call engine operations.
func (l *Ledger) Shared(ctx context.Context, fn func(ctx context.Context) error) error {
	l.storeMu.RLock()
	defer l.storeMu.RUnlock()

	return fn(ctx)
}

// Exclusive runs fn with no operation in flight, for snapshots and imports.
func (l *Ledger) Exclusive(ctx context.Context, fn func(ctx context.Context) error) error {
	l.storeMu.Lock()
	defer l.storeMu.Unlock()

	return fn(ctx)
}

func (l *Ledger) publish(ctx context.Context, event events.TransactionCompleted) {
	if l.publisher == nil {
		return
	}
	// the operation is already committed; a lost event is logged, not undone
	if err := l.publisher.Publish(l.topic, event); err != nil {
		l.log.Error(ctx, "failed to publish event", "operation", event.Operation, "error", err)
	}
}
