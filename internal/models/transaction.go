package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the kind of a ledger record. The values are the literal
// strings used in the persisted data file.
type TransactionType string

const (
	Deposit        TransactionType = "Deposit"
	Withdrawal     TransactionType = "Withdrawal"
	TransferDebit  TransactionType = "Transfer (Debit)"
	TransferCredit TransactionType = "Transfer (Credit)"
)

// Valid reports whether t is one of the four known kinds.
func (t TransactionType) Valid() bool {
	switch t {
	case Deposit, Withdrawal, TransferDebit, TransferCredit:
		return true
	}
	return false
}

// IsCredit reports whether records of this kind add money to the account.
func (t TransactionType) IsCredit() bool {
	return t == Deposit || t == TransferCredit
}

// Transaction is one immutable ledger record for a single account
type Transaction struct {
	ID            string          // unique identifier
	AccountNumber string          // account this record belongs to
	Type          TransactionType // Deposit, Withdrawal, Transfer (Debit) or Transfer (Credit)
	Amount        decimal.Decimal // always positive, the sign comes from Type
	Timestamp     time.Time
	Description   string
}

// SignedAmount returns Amount with the sign the record applies to the balance.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type.IsCredit() {
		return t.Amount
	}
	return t.Amount.Neg()
}
