package memory

import (
	"context"
	"sync"

	interfaces "github.com/sheikh-saqib/zenith-bank-ledger/internal/interfaces"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/models"
)

// MemoryLedgerStore is an in-memory implementation of interfaces.LedgerStore.
// Entries are kept in insertion order and never modified once appended.
type MemoryLedgerStore struct {
	mu      sync.Mutex           // protects entries
	entries []models.Transaction // all ledger entries, oldest insert first
}

// NewMemoryLedgerStore creates and returns a new MemoryLedgerStore instance
func NewMemoryLedgerStore() *MemoryLedgerStore {
	return &MemoryLedgerStore{
		entries: make([]models.Transaction, 0),
	}
}

// SaveEntries appends the entries to the in-memory slice in one step, so a
// reader never sees half of a transfer.
func (m *MemoryLedgerStore) SaveEntries(ctx context.Context, entries ...models.Transaction) error {

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, entries...)
	return nil
}

// GetLedgerEntries returns a copy of all ledger entries in insertion order.
func (m *MemoryLedgerStore) GetLedgerEntries(ctx context.Context) ([]models.Transaction, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]models.Transaction, len(m.entries))
	copy(copied, m.entries)
	return copied, nil
}

func (m *MemoryLedgerStore) GetEntriesByAccount(ctx context.Context, accountNumber string) ([]models.Transaction, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]models.Transaction, 0)

	for _, e := range m.entries {
		if e.AccountNumber == accountNumber {
			result = append(result, e)
		}
	}
	return result, nil
}

// ReplaceEntries drops every entry and installs the given ones, keeping their order.
func (m *MemoryLedgerStore) ReplaceEntries(ctx context.Context, entries []models.Transaction) error {

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make([]models.Transaction, len(entries))
	copy(m.entries, entries)
	return nil
}

var _ interfaces.LedgerStore = (*MemoryLedgerStore)(nil)
