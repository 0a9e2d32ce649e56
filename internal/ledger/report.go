package ledger

import (
	"strings"

	"github.com/sheikh-saqib/zenith-bank-ledger/internal/models"
	"github.com/shopspring/decimal"
)

// Summary aggregates a set of records for the admin dashboard.
type Summary struct {
	Count   int
	Inflow  decimal.Decimal // deposits and transfer credits
	Outflow decimal.Decimal // withdrawals and transfer debits
}

func Summarize(recs []models.Transaction) Summary {
	s := Summary{Inflow: decimal.Zero, Outflow: decimal.Zero}
	for _, r := range recs {
		if r.Type.IsCredit() {
			s.Inflow = s.Inflow.Add(r.Amount)
		} else {
			s.Outflow = s.Outflow.Add(r.Amount)
		}
		s.Count++
	}
	return s
}

// Search keeps records whose account number contains query, or whose type or
// description contains it case-insensitively. An empty query keeps everything.
func Search(recs []models.Transaction, query string) []models.Transaction {
	if query == "" {
		return recs
	}
	q := strings.ToLower(query)
	out := make([]models.Transaction, 0, len(recs))
	for _, r := range recs {
		if strings.Contains(r.AccountNumber, query) ||
			strings.Contains(strings.ToLower(string(r.Type)), q) ||
			strings.Contains(strings.ToLower(r.Description), q) {
			out = append(out, r)
		}
	}
	return out
}

// NetBalance is the signed sum of the records, i.e. the balance they imply.
func NetBalance(recs []models.Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range recs {
		sum = sum.Add(r.SignedAmount())
	}
	return sum
}
