package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/sheikh-saqib/zenith-bank-ledger/internal/common"
	interfaces "github.com/sheikh-saqib/zenith-bank-ledger/internal/interfaces"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/models"
	"github.com/shopspring/decimal"
)

// MemoryAccountStore keeps accounts indexed by number and by owning user.
type MemoryAccountStore struct {
	mu       sync.RWMutex
	order    []string                   // account numbers in insertion order
	byNumber map[string]*models.Account // number -> account
	byUser   map[string]string          // user id -> number
}

func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{
		byNumber: make(map[string]*models.Account),
		byUser:   make(map[string]string),
	}
}

// CreateAccount inserts a new account. It fails with ErrAccountExists when the
// number is taken or the user already owns an account.
func (m *MemoryAccountStore) CreateAccount(ctx context.Context, account models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.byNumber[account.Number]; taken {
		return fmt.Errorf("number %s: %w", account.Number, common.ErrAccountExists)
	}
	if _, owned := m.byUser[account.UserID]; owned {
		return fmt.Errorf("user %s: %w", account.UserID, common.ErrAccountExists)
	}

	a := account
	m.byNumber[a.Number] = &a
	m.byUser[a.UserID] = a.Number
	m.order = append(m.order, a.Number)
	return nil
}

func (m *MemoryAccountStore) GetAccountByNumber(ctx context.Context, number string) (models.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.byNumber[number]
	if !ok {
		return models.Account{}, common.ErrAccountNotFound
	}
	return *a, nil
}

func (m *MemoryAccountStore) GetAccountByUserID(ctx context.Context, userID string) (models.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	number, ok := m.byUser[userID]
	if !ok {
		return models.Account{}, common.ErrAccountNotFound
	}
	return *m.byNumber[number], nil
}

// AdjustBalance adds delta to the balance. A negative delta that would take the
// balance below zero is rejected and leaves the account untouched.
func (m *MemoryAccountStore) AdjustBalance(ctx context.Context, number string, delta decimal.Decimal) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.byNumber[number]
	if !ok {
		return models.Account{}, common.ErrAccountNotFound
	}

	next := a.Balance.Add(delta)
	if next.IsNegative() {
		return models.Account{}, common.ErrInsufficientFunds
	}
	a.Balance = next
	return *a, nil
}

func (m *MemoryAccountStore) GetAccounts(ctx context.Context) ([]models.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Account, 0, len(m.order))
	for _, n := range m.order {
		out = append(out, *m.byNumber[n])
	}
	return out, nil
}

func (m *MemoryAccountStore) ReplaceAccounts(ctx context.Context, accounts []models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.order = make([]string, 0, len(accounts))
	m.byNumber = make(map[string]*models.Account, len(accounts))
	m.byUser = make(map[string]string, len(accounts))
	for _, account := range accounts {
		a := account
		m.byNumber[a.Number] = &a
		m.byUser[a.UserID] = a.Number
		m.order = append(m.order, a.Number)
	}
	return nil
}

var _ interfaces.AccountStore = (*MemoryAccountStore)(nil)
