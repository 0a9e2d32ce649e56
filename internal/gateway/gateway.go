// Package gateway is the single entry point for the presentation layer. It
// tracks who is logged in, gates withdrawals and transfers behind the PIN and
// restricts reporting and data import/export to the administrator.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/sheikh-saqib/zenith-bank-ledger/internal/accounts"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/common"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/identity"
	interfaces "github.com/sheikh-saqib/zenith-bank-ledger/internal/interfaces"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/ledger"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/logging"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/models"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/statement"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/storage"
	"github.com/shopspring/decimal"
)

var pinPattern = regexp.MustCompile(`^\d{4}$`)

// ValidPin reports whether pin is exactly four ASCII digits.
func ValidPin(pin string) bool {
	return pinPattern.MatchString(pin)
}

// Profile is a resolved user. Account is nil for the administrator.
type Profile struct {
	User    models.User
	Account *models.Account
}

type Gateway struct {
	users    *identity.Service
	accounts *accounts.Service
	engine   *ledger.Ledger
	sessions interfaces.SessionStore
	stores   storage.Stores
	now      func() time.Time
	log      logging.Logger
}

// New wires the gateway. stores is used only by ImportData and ExportData.
func New(users *identity.Service, accts *accounts.Service, engine *ledger.Ledger, stores storage.Stores, log logging.Logger) *Gateway {
	return &Gateway{
		users:    users,
		accounts: accts,
		engine:   engine,
		sessions: stores.Sessions,
		stores:   stores,
		now:      time.Now,
		log:      log.With("component", "gateway"),
	}
}

// Register creates the user and the account together and logs the user in.
// If the account cannot be opened the user is removed again. Both steps run
// in one shared scope of the engine, so an import or snapshot never sees a
// user without their account.
func (g *Gateway) Register(ctx context.Context, name, email, password, pin string) (*Profile, error) {
	if !ValidPin(pin) {
		return nil, common.ErrInvalidPinFormat
	}

	var profile *Profile
	err := g.engine.Shared(ctx, func(ctx context.Context) error {
		user, err := g.users.Register(ctx, name, email, password, pin)
		if err != nil {
			return err
		}

		account, err := g.accounts.Open(ctx, user.ID)
		if err != nil {
			if rmErr := g.users.Remove(ctx, user.ID); rmErr != nil {
				g.log.Error(ctx, "failed to remove user after account failure", "user_id", user.ID, "error", rmErr)
			}
			g.log.Warn(ctx, "registration rolled back", "user_id", user.ID, "error", err)
			if errors.Is(err, common.ErrAccountCreationFailed) {
				return err
			}
			return fmt.Errorf("%w: %v", common.ErrAccountCreationFailed, err)
		}

		profile = &Profile{User: *user, Account: account}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := g.sessions.Remember(ctx, profile.User.ID); err != nil {
		return nil, err
	}
	return profile, nil
}

func (g *Gateway) Login(ctx context.Context, email, password string) (*Profile, error) {
	user, err := g.users.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	profile, err := g.profile(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := g.sessions.Remember(ctx, user.ID); err != nil {
		return nil, err
	}

	g.log.Info(ctx, "user logged in", "user_id", user.ID, "role", string(user.Role))
	return profile, nil
}

func (g *Gateway) Logout(ctx context.Context, userID string) error {
	return g.sessions.Forget(ctx, userID)
}

// ResolveCurrentUser turns a remembered id back into a profile. An id whose
// user or account has disappeared is forgotten and reported as
// ErrNoCurrentUser.
func (g *Gateway) ResolveCurrentUser(ctx context.Context, storedID string) (*Profile, error) {
	if storedID == "" {
		return nil, common.ErrNoCurrentUser
	}
	remembered, err := g.sessions.IsRemembered(ctx, storedID)
	if err != nil {
		return nil, err
	}
	if !remembered {
		return nil, common.ErrNoCurrentUser
	}

	user, err := g.users.FindByID(ctx, storedID)
	if err == nil {
		var profile *Profile
		if profile, err = g.profile(ctx, user); err == nil {
			return profile, nil
		}
	}
	if !errors.Is(err, common.ErrUserNotFound) && !errors.Is(err, common.ErrAccountNotFound) {
		return nil, err
	}

	if err := g.sessions.Forget(ctx, storedID); err != nil {
		return nil, err
	}
	g.log.Info(ctx, "stale session dropped", "user_id", storedID)
	return nil, common.ErrNoCurrentUser
}

func (g *Gateway) profile(ctx context.Context, user *models.User) (*Profile, error) {
	if user.IsAdmin() {
		return &Profile{User: *user}, nil
	}
	account, err := g.accounts.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: *user, Account: account}, nil
}

// customer resolves a logged-in user that owns an account.
func (g *Gateway) customer(ctx context.Context, userID string) (*Profile, error) {
	p, err := g.ResolveCurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p.Account == nil {
		return nil, common.ErrAccountNotFound
	}
	return p, nil
}

// checkPin fails with ErrIncorrectPin unless pin verifies for the user.
func (g *Gateway) checkPin(ctx context.Context, userID, pin string) error {
	ok, err := g.users.VerifyPin(ctx, userID, pin)
	if err != nil {
		return err
	}
	if !ok {
		g.log.Warn(ctx, "pin verification failed", "user_id", userID)
		return common.ErrIncorrectPin
	}
	return nil
}

func (g *Gateway) Deposit(ctx context.Context, userID string, amount decimal.Decimal) (*models.Transaction, error) {
	p, err := g.customer(ctx, userID)
	if err != nil {
		return nil, err
	}
	return g.engine.Deposit(ctx, p.Account.Number, amount)
}

// Withdraw checks the PIN before the engine is touched.
func (g *Gateway) Withdraw(ctx context.Context, userID, pin string, amount decimal.Decimal) (*models.Transaction, error) {
	p, err := g.customer(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := g.checkPin(ctx, userID, pin); err != nil {
		return nil, err
	}
	return g.engine.Withdraw(ctx, p.Account.Number, amount)
}

// Transfer checks the PIN before the engine is touched and returns the debit
// record of the sender.
func (g *Gateway) Transfer(ctx context.Context, userID, pin, to string, amount decimal.Decimal) (*models.Transaction, error) {
	p, err := g.customer(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := g.checkPin(ctx, userID, pin); err != nil {
		return nil, err
	}
	debit, _, err := g.engine.Transfer(ctx, p.Account.Number, to, amount)
	return debit, err
}

func (g *Gateway) VerifyPin(ctx context.Context, userID, pin string) (bool, error) {
	if _, err := g.customer(ctx, userID); err != nil {
		return false, err
	}
	return g.users.VerifyPin(ctx, userID, pin)
}

func (g *Gateway) ChangePin(ctx context.Context, userID, oldPin, newPin string) error {
	if _, err := g.customer(ctx, userID); err != nil {
		return err
	}
	if !ValidPin(newPin) {
		return common.ErrInvalidPinFormat
	}
	return g.engine.Shared(ctx, func(ctx context.Context) error {
		return g.users.ChangePin(ctx, userID, oldPin, newPin)
	})
}

// History returns the current user's records, newest first.
func (g *Gateway) History(ctx context.Context, userID string) ([]models.Transaction, error) {
	p, err := g.customer(ctx, userID)
	if err != nil {
		return nil, err
	}
	return g.engine.History(ctx, p.Account.Number)
}

// Statement builds the statement of the current user for the days from..to.
func (g *Gateway) Statement(ctx context.Context, userID string, from, to time.Time) (*statement.Statement, error) {
	p, err := g.customer(ctx, userID)
	if err != nil {
		return nil, err
	}
	account, recs, err := g.engine.AccountWithHistory(ctx, p.Account.Number)
	if err != nil {
		return nil, err
	}
	return statement.Build(p.User.Name, *account, recs, from, to, g.now())
}
