// Package common holds the error kinds shared by the ledger packages and the
// HTTP boundary. Callers match them with errors.Is.
package common

import "errors"

var (
	// identity errors
	ErrDuplicateEmail     = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrIncorrectPin       = errors.New("incorrect PIN")
	ErrInvalidPinFormat   = errors.New("PIN must be exactly 4 digits")
	ErrUserNotFound       = errors.New("user not found")

	// account and ledger errors
	ErrAccountNotFound       = errors.New("account not found")
	ErrAccountExists         = errors.New("account already exists")
	ErrAccountCreationFailed = errors.New("failed to create an account")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrSameAccount           = errors.New("cannot transfer to the same account")

	// import and export errors
	ErrInvalidDataFile  = errors.New("invalid data file")
	ErrInvalidDateRange = errors.New("start date must not be after end date")

	// session errors
	ErrNoCurrentUser = errors.New("no user is logged in")
	ErrForbidden     = errors.New("operation requires administrator role")
	ErrInvalidToken  = errors.New("invalid token")
)
