package interfaces

import (
	"context"

	"github.com/sheikh-saqib/zenith-bank-ledger/internal/models"
	"github.com/shopspring/decimal"
)

// LedgerStore is the append-only transaction log. SaveEntries stores all the
// given entries or none of them.
type LedgerStore interface {
	SaveEntries(ctx context.Context, entries ...models.Transaction) error
	GetEntriesByAccount(ctx context.Context, accountNumber string) ([]models.Transaction, error)
	GetLedgerEntries(ctx context.Context) ([]models.Transaction, error)
	ReplaceEntries(ctx context.Context, entries []models.Transaction) error
}

// AccountStore holds one account per user. AdjustBalance is the only way a
// balance changes after creation.
type AccountStore interface {
	CreateAccount(ctx context.Context, account models.Account) error
	GetAccountByNumber(ctx context.Context, number string) (models.Account, error)
	GetAccountByUserID(ctx context.Context, userID string) (models.Account, error)
	AdjustBalance(ctx context.Context, number string, delta decimal.Decimal) (models.Account, error)
	GetAccounts(ctx context.Context) ([]models.Account, error)
	ReplaceAccounts(ctx context.Context, accounts []models.Account) error
}

type UserStore interface {
	CreateUser(ctx context.Context, user models.User) error
	GetUserByID(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	// UpdatePin swaps the PIN hash only if the stored hash still equals oldHash.
	UpdatePin(ctx context.Context, id, oldHash, newHash string) error
	DeleteUser(ctx context.Context, id string) error
	GetUsers(ctx context.Context) ([]models.User, error)
	ReplaceUsers(ctx context.Context, users []models.User) error
}

// SessionStore remembers which user ids are currently logged in.
type SessionStore interface {
	Remember(ctx context.Context, userID string) error
	IsRemembered(ctx context.Context, userID string) (bool, error)
	Forget(ctx context.Context, userID string) error
}

// SnapshotStore persists and restores the full data set. LoadSnapshot returns
// a nil snapshot when nothing has been saved yet.
type SnapshotStore interface {
	LoadSnapshot(ctx context.Context) (*models.Snapshot, error)
	SaveSnapshot(ctx context.Context, snap models.Snapshot) error
}
