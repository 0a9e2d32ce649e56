// Package identity registers users, checks login passwords and owns the
// transaction PIN of every customer.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/common"
	interfaces "github.com/sheikh-saqib/zenith-bank-ledger/internal/interfaces"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/logging"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/models"
)

// AdminID is the fixed identifier of the seeded administrator.
const AdminID = "admin-user"

// Hasher turns secrets into salted digests and checks them.
type Hasher interface {
	Hash(secret string) (string, error)
	Verify(secret, digest string) bool
}

type Service struct {
	store  interfaces.UserStore
	hasher Hasher
	log    logging.Logger
}

func NewService(store interfaces.UserStore, hasher Hasher, log logging.Logger) *Service {
	return &Service{store: store, hasher: hasher, log: log.With("component", "identity")}
}

// Register creates a regular user. The PIN format is the caller's concern.
func (s *Service) Register(ctx context.Context, name, email, password, pin string) (*models.User, error) {
	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil, common.ErrDuplicateEmail
	} else if !errors.Is(err, common.ErrUserNotFound) {
		return nil, fmt.Errorf("error looking up email: %w", err)
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}
	pinHash, err := s.hasher.Hash(pin)
	if err != nil {
		return nil, fmt.Errorf("error hashing pin: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		PinHash:      pinHash,
		Role:         models.RoleUser,
	}
	// the store re-checks the email under its own lock
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return &user, nil
}

// Login never tells an unknown email apart from a wrong password.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error looking up email: %w", err)
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		s.log.Warn(ctx, "login rejected", "user_id", user.ID)
		return nil, common.ErrInvalidCredentials
	}
	return &user, nil
}

func (s *Service) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) VerifyPin(ctx context.Context, userID, pin string) (bool, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return s.hasher.Verify(pin, user.PinHash), nil
}

// ChangePin replaces the PIN hash after checking oldPin. The swap is
// conditional on the hash that was verified, so two concurrent changes cannot
// both win.
func (s *Service) ChangePin(ctx context.Context, userID, oldPin, newPin string) error {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(oldPin, user.PinHash) {
		s.log.Warn(ctx, "pin change rejected", "user_id", userID)
		return common.ErrIncorrectPin
	}

	newHash, err := s.hasher.Hash(newPin)
	if err != nil {
		return fmt.Errorf("error hashing pin: %w", err)
	}
	if err := s.store.UpdatePin(ctx, userID, user.PinHash, newHash); err != nil {
		return err
	}

	s.log.Info(ctx, "pin changed", "user_id", userID)
	return nil
}

// EnsureAdmin seeds the administrator when the store holds no users at all.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	users, err := s.store.GetUsers(ctx)
	if err != nil {
		return fmt.Errorf("error listing users: %w", err)
	}
	if len(users) > 0 {
		return nil
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("error hashing admin password: %w", err)
	}
	admin := models.User{
		ID:           AdminID,
		Name:         "Admin",
		Email:        email,
		PasswordHash: passwordHash,
		Role:         models.RoleAdmin,
	}
	if err := s.store.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("error seeding admin: %w", err)
	}

	s.log.Info(ctx, "administrator seeded", "email", email)
	return nil
}

// Customers returns every regular user in registration order.
func (s *Service) Customers(ctx context.Context) ([]models.User, error) {
	users, err := s.store.GetUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.Role == models.RoleUser {
			out = append(out, u)
		}
	}
	return out, nil
}

// Remove undoes a registration whose account could not be opened.
func (s *Service) Remove(ctx context.Context, id string) error {
	return s.store.DeleteUser(ctx, id)
}
