// Package accounts opens the single account of each user and is the only path
// through which balances change.
package accounts

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/sheikh-saqib/zenith-bank-ledger/internal/common"
	interfaces "github.com/sheikh-saqib/zenith-bank-ledger/internal/interfaces"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/logging"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/models"
	"github.com/shopspring/decimal"
)

// NumberLength is the number of digits in an account number.
const NumberLength = 10

// NumberGenerator draws a candidate account number.
type NumberGenerator func() (string, error)

var (
	numberFloor = big.NewInt(1_000_000_000) // smallest 10-digit number
	numberSpan  = big.NewInt(9_000_000_000)
)

// RandomNumber returns a uniformly drawn 10-digit number without a leading zero.
func RandomNumber() (string, error) {
	n, err := rand.Int(rand.Reader, numberSpan)
	if err != nil {
		return "", err
	}
	return n.Add(n, numberFloor).String(), nil
}

type Service struct {
	store    interfaces.AccountStore
	generate NumberGenerator
	attempts int
	log      logging.Logger
}

func NewService(store interfaces.AccountStore, generate NumberGenerator, attempts int, log logging.Logger) *Service {
	if generate == nil {
		generate = RandomNumber
	}
	if attempts < 1 {
		attempts = 1
	}
	return &Service{store: store, generate: generate, attempts: attempts, log: log.With("component", "accounts")}
}

// Open creates the zero-balance account of userID. Number collisions are retried
// with a fresh draw; ErrAccountCreationFailed is returned once every attempt is used.
func (s *Service) Open(ctx context.Context, userID string) (*models.Account, error) {
	if _, err := s.store.GetAccountByUserID(ctx, userID); err == nil {
		return nil, fmt.Errorf("user %s: %w", userID, common.ErrAccountExists)
	}

	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		number, err := s.generate()
		if err != nil {
			lastErr = err
			continue
		}

		account := models.Account{Number: number, UserID: userID, Balance: decimal.Zero}
		err = s.store.CreateAccount(ctx, account)
		if err == nil {
			s.log.Info(ctx, "account opened", "user_id", userID, "account", number, "attempt", attempt)
			return &account, nil
		}
		if !errors.Is(err, common.ErrAccountExists) {
			return nil, fmt.Errorf("%w: %v", common.ErrAccountCreationFailed, err)
		}
		lastErr = err
		s.log.Warn(ctx, "account number collision", "account", number, "attempt", attempt)
	}
	return nil, fmt.Errorf("%w after %d attempts: %v", common.ErrAccountCreationFailed, s.attempts, lastErr)
}

func (s *Service) FindByUserID(ctx context.Context, userID string) (*models.Account, error) {
	a, err := s.store.GetAccountByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Service) FindByNumber(ctx context.Context, number string) (*models.Account, error) {
	a, err := s.store.GetAccountByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// AdjustBalance applies delta to the stored balance. It fails with
// ErrInsufficientFunds rather than let a balance go negative.
func (s *Service) AdjustBalance(ctx context.Context, number string, delta decimal.Decimal) (*models.Account, error) {
	a, err := s.store.AdjustBalance(ctx, number, delta)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// All returns every account in creation order.
func (s *Service) All(ctx context.Context) ([]models.Account, error) {
	return s.store.GetAccounts(ctx)
}
