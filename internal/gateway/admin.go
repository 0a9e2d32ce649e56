package gateway

import (
	"context"

	"github.com/sheikh-saqib/zenith-bank-ledger/internal/common"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/ledger"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/models"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/snapshot"
	"github.com/shopspring/decimal"
)

// Customer is a regular user with the account they own, if any.
type Customer struct {
	User    models.User
	Account *models.Account
}

// Stats summarizes the whole bank.
type Stats struct {
	Customers    int
	TotalBalance decimal.Decimal
	ledger.Summary
}

func (g *Gateway) admin(ctx context.Context, userID string) (*Profile, error) {
	p, err := g.ResolveCurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !p.User.IsAdmin() {
		g.log.Warn(ctx, "admin operation refused", "user_id", userID)
		return nil, common.ErrForbidden
	}
	return p, nil
}

// Customers lists every regular user in registration order.
func (g *Gateway) Customers(ctx context.Context, adminID string) ([]Customer, error) {
	if _, err := g.admin(ctx, adminID); err != nil {
		return nil, err
	}

	users, err := g.users.Customers(ctx)
	if err != nil {
		return nil, err
	}
	all, err := g.accounts.All(ctx)
	if err != nil {
		return nil, err
	}
	byUser := make(map[string]models.Account, len(all))
	for _, a := range all {
		byUser[a.UserID] = a
	}

	out := make([]Customer, 0, len(users))
	for _, u := range users {
		c := Customer{User: u}
		if a, ok := byUser[u.ID]; ok {
			c.Account = &a
		}
		out = append(out, c)
	}
	return out, nil
}

// AllTransactions lists every record newest first, narrowed by filter when it
// is not empty.
func (g *Gateway) AllTransactions(ctx context.Context, adminID, filter string) ([]models.Transaction, error) {
	if _, err := g.admin(ctx, adminID); err != nil {
		return nil, err
	}
	recs, err := g.engine.GetLedgerEntries(ctx)
	if err != nil {
		return nil, err
	}
	if filter == "" {
		return recs, nil
	}
	return ledger.Search(recs, filter), nil
}

func (g *Gateway) Stats(ctx context.Context, adminID string) (*Stats, error) {
	if _, err := g.admin(ctx, adminID); err != nil {
		return nil, err
	}

	customers, err := g.users.Customers(ctx)
	if err != nil {
		return nil, err
	}
	all, err := g.accounts.All(ctx)
	if err != nil {
		return nil, err
	}
	recs, err := g.engine.GetLedgerEntries(ctx)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, a := range all {
		total = total.Add(a.Balance)
	}
	return &Stats{Customers: len(customers), TotalBalance: total, Summary: ledger.Summarize(recs)}, nil
}

// ExportData encodes the full data set in the format ImportData accepts.
func (g *Gateway) ExportData(ctx context.Context, adminID string) ([]byte, error) {
	if _, err := g.admin(ctx, adminID); err != nil {
		return nil, err
	}

	var raw []byte
	err := g.engine.Exclusive(ctx, func(ctx context.Context) error {
		snap, err := g.stores.Snapshot(ctx)
		if err != nil {
			return err
		}
		raw, err = snapshot.Encode(snap)
		return err
	})
	return raw, err
}

// ImportData validates raw and then replaces users, accounts and records with
// its contents while no operation is in flight. A document without an
// administrator keeps the calling administrator.
func (g *Gateway) ImportData(ctx context.Context, adminID string, raw []byte) error {
	p, err := g.admin(ctx, adminID)
	if err != nil {
		return err
	}

	snap, err := snapshot.Decode(raw)
	if err != nil {
		return err
	}
	if !hasAdmin(snap.Users) {
		snap.Users = append([]models.User{p.User}, snap.Users...)
	}
	if err := snapshot.Validate(snap); err != nil {
		return err
	}
	snapshot.Normalize(snap)

	if err := g.engine.Exclusive(ctx, func(ctx context.Context) error {
		return g.stores.Restore(ctx, *snap)
	}); err != nil {
		return err
	}

	g.log.Info(ctx, "data imported",
		"users", len(snap.Users), "accounts", len(snap.Accounts), "transactions", len(snap.Transactions))
	return nil
}

func hasAdmin(users []models.User) bool {
	for _, u := range users {
		if u.IsAdmin() {
			return true
		}
	}
	return false
}
