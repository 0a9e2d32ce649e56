package models

import "github.com/shopspring/decimal"

// Account is the single bank account owned by a user.
type Account struct {
	Number  string          // public 10-digit account number
	UserID  string          // owning user
	Balance decimal.Decimal // never negative
}
