// Package bank owns the lifecycle of one ledger instance: construct, load the
// last snapshot, operate through the gateway, flush and close.
package bank

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sheikh-saqib/zenith-bank-ledger/internal/accounts"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/config"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/credentials"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/gateway"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/identity"
	interfaces "github.com/sheikh-saqib/zenith-bank-ledger/internal/interfaces"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/ledger"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/logging"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/snapshot"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/storage"
)

// Deps are the external resources a Bank uses. Only Snapshots is required.
type Deps struct {
	Snapshots interfaces.SnapshotStore
	Publisher interfaces.EventPublisher // nil disables events
	DB        io.Closer                 // closed by Close, may be nil
	Numbers   accounts.NumberGenerator  // nil draws random numbers
	Log       logging.Logger
}

type Bank struct {
	cfg       *config.Config
	stores    storage.Stores
	users     *identity.Service
	engine    *ledger.Ledger
	gateway   *gateway.Gateway
	snapshots interfaces.SnapshotStore
	publisher interfaces.EventPublisher
	db        io.Closer
	log       logging.Logger
}

// New wires in-memory stores, services, the engine and the gateway. The bank
// is empty until Load is called.
func New(cfg *config.Config, deps Deps) (*Bank, error) {
	if deps.Snapshots == nil {
		return nil, errors.New("bank: snapshot store is required")
	}
	log := deps.Log
	if log == nil {
		log = logging.NewDiscardLogger()
	}

	stores := storage.NewMemoryStores()
	users := identity.NewService(stores.Users, credentials.NewHasher(cfg.BcryptCost), log)
	accts := accounts.NewService(stores.Accounts, deps.Numbers, cfg.AccountNumberAttempts, log)
	engine := ledger.NewLedger(accts, ledger.NewJournal(stores.Ledger, nil), deps.Publisher, cfg.KafkaTopic, log)

	return &Bank{
		cfg:       cfg,
		stores:    stores,
		users:     users,
		engine:    engine,
		gateway:   gateway.New(users, accts, engine, stores, log),
		snapshots: deps.Snapshots,
		publisher: deps.Publisher,
		db:        deps.DB,
		log:       log.With("component", "bank"),
	}, nil
}

func (b *Bank) Gateway() *gateway.Gateway {
	return b.gateway
}

// Load restores the last saved snapshot, if any, and seeds the administrator
// when the store is still empty.
func (b *Bank) Load(ctx context.Context) error {
	snap, err := b.snapshots.LoadSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("error loading snapshot: %w", err)
	}

	if snap != nil {
		if err := snapshot.Validate(snap); err != nil {
			return err
		}
		snapshot.Normalize(snap)
		if err := b.engine.Exclusive(ctx, func(ctx context.Context) error {
			return b.stores.Restore(ctx, *snap)
		}); err != nil {
			return err
		}
		b.log.Info(ctx, "snapshot restored",
			"users", len(snap.Users), "accounts", len(snap.Accounts), "transactions", len(snap.Transactions))
	}

	return b.users.EnsureAdmin(ctx, b.cfg.AdminEmail, b.cfg.AdminPassword)
}

// Flush saves a consistent snapshot; no operation runs while it is taken.
func (b *Bank) Flush(ctx context.Context) error {
	return b.engine.Exclusive(ctx, func(ctx context.Context) error {
		snap, err := b.stores.Snapshot(ctx)
		if err != nil {
			return err
		}
		if err := b.snapshots.SaveSnapshot(ctx, snap); err != nil {
			return fmt.Errorf("error saving snapshot: %w", err)
		}
		return nil
	})
}

// Close flushes, then releases the publisher and the database.
func (b *Bank) Close(ctx context.Context) error {
	var errs []error
	if err := b.Flush(ctx); err != nil {
		errs = append(errs, err)
	}
	if b.publisher != nil {
		if err := b.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing publisher: %w", err))
		}
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing database: %w", err))
		}
	}
	b.log.Info(ctx, "bank closed")
	return errors.Join(errs...)
}
