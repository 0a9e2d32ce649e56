package models

// Snapshot is a full copy of the three collections, in insertion order.
type Snapshot struct {
	Users        []User
	Accounts     []Account
	Transactions []Transaction
}
