package snapshot

import (
	"fmt"

	"github.com/sheikh-saqib/zenith-bank-ledger/internal/common"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/ledger"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/models"
	"github.com/shopspring/decimal"
)

// Validate checks that snap could have been produced by the ledger itself:
// unique users and emails, one account per known user, unique account numbers,
// well-formed transactions on known accounts, and balances equal to the
// signed sum of each account's transactions. Every failure wraps
// ErrInvalidDataFile.
func Validate(snap *models.Snapshot) error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", common.ErrInvalidDataFile, fmt.Sprintf(format, args...))
	}

	users := make(map[string]models.User, len(snap.Users))
	emails := make(map[string]struct{}, len(snap.Users))
	admins := 0
	for _, u := range snap.Users {
		if u.ID == "" || u.Email == "" {
			return invalid("user with empty id or email")
		}
		if _, dup := users[u.ID]; dup {
			return invalid("duplicate user id %s", u.ID)
		}
		if _, dup := emails[u.Email]; dup {
			return invalid("duplicate email %s", u.Email)
		}
		switch u.Role {
		case models.RoleAdmin:
			admins++
		case models.RoleUser:
			if u.PinHash == "" {
				return invalid("user %s has no PIN", u.ID)
			}
		default:
			return invalid("user %s has unknown role %q", u.ID, u.Role)
		}
		users[u.ID] = u
		emails[u.Email] = struct{}{}
	}
	if admins > 1 {
		return invalid("more than one administrator")
	}

	balances := make(map[string]decimal.Decimal, len(snap.Accounts))
	owners := make(map[string]struct{}, len(snap.Accounts))
	for _, a := range snap.Accounts {
		if a.Number == "" {
			return invalid("account with empty number")
		}
		if _, dup := balances[a.Number]; dup {
			return invalid("duplicate account number %s", a.Number)
		}
		owner, ok := users[a.UserID]
		if !ok {
			return invalid("account %s references unknown user %s", a.Number, a.UserID)
		}
		if owner.IsAdmin() {
			return invalid("account %s is owned by the administrator", a.Number)
		}
		if _, dup := owners[a.UserID]; dup {
			return invalid("user %s owns more than one account", a.UserID)
		}
		if a.Balance.IsNegative() {
			return invalid("account %s has a negative balance", a.Number)
		}
		balances[a.Number] = a.Balance
		owners[a.UserID] = struct{}{}
	}

	ids := make(map[string]struct{}, len(snap.Transactions))
	byAccount := make(map[string][]models.Transaction, len(snap.Accounts))
	for _, t := range snap.Transactions {
		if _, dup := ids[t.ID]; dup || t.ID == "" {
			return invalid("missing or duplicate transaction id %q", t.ID)
		}
		if _, ok := balances[t.AccountNumber]; !ok {
			return invalid("transaction %s references unknown account %s", t.ID, t.AccountNumber)
		}
		if !t.Type.Valid() {
			return invalid("transaction %s has unknown type %q", t.ID, t.Type)
		}
		if !t.Amount.IsPositive() {
			return invalid("transaction %s has a non-positive amount", t.ID)
		}
		if t.Timestamp.IsZero() {
			return invalid("transaction %s has no timestamp", t.ID)
		}
		ids[t.ID] = struct{}{}
		byAccount[t.AccountNumber] = append(byAccount[t.AccountNumber], t)
	}

	// data written by floating-point clients can drift below a cent
	for number, balance := range balances {
		sum := ledger.NetBalance(byAccount[number])
		if !balance.Round(2).Equal(sum.Round(2)) {
			return invalid("account %s balance %s does not match its transactions (%s)",
				number, balance.StringFixed(2), sum.StringFixed(2))
		}
	}
	return nil
}

// Normalize rounds every money value to cents.
func Normalize(snap *models.Snapshot) {
	for i := range snap.Accounts {
		snap.Accounts[i].Balance = snap.Accounts[i].Balance.Round(2)
	}
	for i := range snap.Transactions {
		snap.Transactions[i].Amount = snap.Transactions[i].Amount.Round(2)
	}
}
