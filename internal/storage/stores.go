// Package storage groups the record stores behind one value so the whole data
// set can be copied out or replaced in one call.
package storage

import (
	"context"
	"fmt"

	interfaces "github.com/sheikh-saqib/zenith-bank-ledger/internal/interfaces"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/models"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/storage/memory"
)

type Stores struct {
	Users    interfaces.UserStore
	Accounts interfaces.AccountStore
	Ledger   interfaces.LedgerStore
	Sessions interfaces.SessionStore
}

// NewMemoryStores returns empty in-memory stores.
func NewMemoryStores() Stores {
	return Stores{
		Users:    memory.NewMemoryUserStore(),
		Accounts: memory.NewMemoryAccountStore(),
		Ledger:   memory.NewMemoryLedgerStore(),
		Sessions: memory.NewMemorySessionStore(),
	}
}

// Snapshot copies the three collections in insertion order. Callers that need
// a consistent copy hold the engine's exclusive lock.
func (s Stores) Snapshot(ctx context.Context) (models.Snapshot, error) {
	users, err := s.Users.GetUsers(ctx)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("error reading users: %w", err)
	}
	accounts, err := s.Accounts.GetAccounts(ctx)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("error reading accounts: %w", err)
	}
	txs, err := s.Ledger.GetLedgerEntries(ctx)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("error reading ledger: %w", err)
	}
	return models.Snapshot{Users: users, Accounts: accounts, Transactions: txs}, nil
}

// Restore replaces every collection with the contents of snap. Sessions are
// left alone; stale ones fail to resolve and are dropped on next use.
func (s Stores) Restore(ctx context.Context, snap models.Snapshot) error {
	if err := s.Users.ReplaceUsers(ctx, snap.Users); err != nil {
		return fmt.Errorf("error replacing users: %w", err)
	}
	if err := s.Accounts.ReplaceAccounts(ctx, snap.Accounts); err != nil {
		return fmt.Errorf("error replacing accounts: %w", err)
	}
	if err := s.Ledger.ReplaceEntries(ctx, snap.Transactions); err != nil {
		return fmt.Errorf("error replacing ledger: %w", err)
	}
	return nil
}
