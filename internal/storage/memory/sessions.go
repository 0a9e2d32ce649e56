package memory

import (
	"context"
	"sync"

	interfaces "github.com/sheikh-saqib/zenith-bank-ledger/internal/interfaces"
)

// MemorySessionStore is the set of user ids that are currently logged in.
type MemorySessionStore struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{ids: make(map[string]struct{})}
}

func (m *MemorySessionStore) Remember(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids[userID] = struct{}{}
	return nil
}

func (m *MemorySessionStore) IsRemembered(ctx context.Context, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.ids[userID]
	return ok, nil
}

func (m *MemorySessionStore) Forget(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.ids, userID)
	return nil
}

var _ interfaces.SessionStore = (*MemorySessionStore)(nil)
