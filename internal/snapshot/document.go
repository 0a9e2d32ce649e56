// Package snapshot converts the ledger state to and from the JSON data file
// ({"users": [...], "accounts": [...], "transactions": [...]}) and validates
// imported documents before they replace the live state.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sheikh-saqib/zenith-bank-ledger/internal/common"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/models"
	"github.com/shopspring/decimal"
)

// Money encodes as a bare JSON number with two decimals and decodes from either
// a number or a quoted string.
type Money struct {
	decimal.Decimal
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.StringFixed(2)), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	return m.Decimal.UnmarshalJSON(b)
}

type userDoc struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	PinHash      string `json:"pinHash"`
	Role         string `json:"role"`
}

type accountDoc struct {
	AccountNumber string `json:"accountNumber"`
	UserID        string `json:"userId"`
	Balance       Money  `json:"balance"`
}

type transactionDoc struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"accountId"`
	Type        string    `json:"type"`
	Amount      Money     `json:"amount"`
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
}

// document uses pointers so a missing collection can be told apart from an
// empty one.
type document struct {
	Users        *[]userDoc        `json:"users"`
	Accounts     *[]accountDoc     `json:"accounts"`
	Transactions *[]transactionDoc `json:"transactions"`
}

// Encode writes snap as an indented JSON document, preserving slice order.
func Encode(snap models.Snapshot) ([]byte, error) {
	users := make([]userDoc, 0, len(snap.Users))
	for _, u := range snap.Users {
		users = append(users, userDoc{
			ID: u.ID, Name: u.Name, Email: u.Email,
			PasswordHash: u.PasswordHash, PinHash: u.PinHash, Role: string(u.Role),
		})
	}
	accounts := make([]accountDoc, 0, len(snap.Accounts))
	for _, a := range snap.Accounts {
		accounts = append(accounts, accountDoc{AccountNumber: a.Number, UserID: a.UserID, Balance: Money{a.Balance}})
	}
	txs := make([]transactionDoc, 0, len(snap.Transactions))
	for _, t := range snap.Transactions {
		txs = append(txs, transactionDoc{
			ID: t.ID, AccountID: t.AccountNumber, Type: string(t.Type),
			Amount: Money{t.Amount}, Timestamp: t.Timestamp.UTC(), Description: t.Description,
		})
	}

	return json.MarshalIndent(document{Users: &users, Accounts: &accounts, Transactions: &txs}, "", "  ")
}

// Decode parses a data file. It fails with ErrInvalidDataFile when the JSON is
// malformed or any of the three collections is missing. It does not validate
// cross references; see Validate.
func Decode(raw []byte) (*models.Snapshot, error) {
	var doc document
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidDataFile, err)
	}
	if doc.Users == nil || doc.Accounts == nil || doc.Transactions == nil {
		return nil, fmt.Errorf("%w: missing required fields", common.ErrInvalidDataFile)
	}

	snap := &models.Snapshot{
		Users:        make([]models.User, 0, len(*doc.Users)),
		Accounts:     make([]models.Account, 0, len(*doc.Accounts)),
		Transactions: make([]models.Transaction, 0, len(*doc.Transactions)),
	}
	for _, u := range *doc.Users {
		snap.Users = append(snap.Users, models.User{
			ID: u.ID, Name: u.Name, Email: u.Email,
			PasswordHash: u.PasswordHash, PinHash: u.PinHash, Role: models.Role(u.Role),
		})
	}
	for _, a := range *doc.Accounts {
		snap.Accounts = append(snap.Accounts, models.Account{Number: a.AccountNumber, UserID: a.UserID, Balance: a.Balance.Decimal})
	}
	for _, t := range *doc.Transactions {
		snap.Transactions = append(snap.Transactions, models.Transaction{
			ID: t.ID, AccountNumber: t.AccountID, Type: models.TransactionType(t.Type),
			Amount: t.Amount.Decimal, Timestamp: t.Timestamp, Description: t.Description,
		})
	}
	return snap, nil
}
