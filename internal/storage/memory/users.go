package memory

import (
	"context"
	"sync"

	"github.com/sheikh-saqib/zenith-bank-ledger/internal/common"
	interfaces "github.com/sheikh-saqib/zenith-bank-ledger/internal/interfaces"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/models"
)

// MemoryUserStore keeps users indexed by id and by email.
type MemoryUserStore struct {
	mu      sync.RWMutex
	order   []string                // user ids in insertion order
	byID    map[string]*models.User // id -> user
	byEmail map[string]string       // email (exact) -> id
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]string),
	}
}

// CreateUser inserts a user; the email check and the insert happen under one
// lock so two registrations with the same email cannot both succeed.
func (m *MemoryUserStore) CreateUser(ctx context.Context, user models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byEmail[user.Email]; exists {
		return common.ErrDuplicateEmail
	}

	u := user
	m.byID[u.ID] = &u
	m.byEmail[u.Email] = u.ID
	m.order = append(m.order, u.ID)
	return nil
}

func (m *MemoryUserStore) GetUserByID(ctx context.Context, id string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.byID[id]
	if !ok {
		return models.User{}, common.ErrUserNotFound
	}
	return *u, nil
}

func (m *MemoryUserStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[email]
	if !ok {
		return models.User{}, common.ErrUserNotFound
	}
	return *m.byID[id], nil
}

func (m *MemoryUserStore) UpdatePin(ctx context.Context, id, oldHash, newHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byID[id]
	if !ok {
		return common.ErrUserNotFound
	}
	// another change slipped in since the caller verified the old PIN
	if u.PinHash != oldHash {
		return common.ErrIncorrectPin
	}
	u.PinHash = newHash
	return nil
}

func (m *MemoryUserStore) DeleteUser(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byID[id]
	if !ok {
		return common.ErrUserNotFound
	}
	delete(m.byEmail, u.Email)
	delete(m.byID, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryUserStore) GetUsers(ctx context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.User, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.byID[id])
	}
	return out, nil
}

func (m *MemoryUserStore) ReplaceUsers(ctx context.Context, users []models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.order = make([]string, 0, len(users))
	m.byID = make(map[string]*models.User, len(users))
	m.byEmail = make(map[string]string, len(users))
	for _, user := range users {
		u := user
		m.byID[u.ID] = &u
		m.byEmail[u.Email] = u.ID
		m.order = append(m.order, u.ID)
	}
	return nil
}

var _ interfaces.UserStore = (*MemoryUserStore)(nil)
