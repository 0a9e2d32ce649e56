package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionCompleted is published once a deposit, withdrawal or transfer
// has been committed to the ledger.
type TransactionCompleted struct {
	Operation      string          `json:"operation"`
	TransactionIDs []string        `json:"transaction_ids"`
	FromAccount    string          `json:"from_account,omitempty"`
	ToAccount      string          `json:"to_account,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	OccurredAt     time.Time       `json:"occurred_at"`
}
