// Package statement builds account statements for a date range and renders
// them as aligned text or CSV.
package statement

import (
	"fmt"
	"sort"
	"time"

	"github.com/sheikh-saqib/zenith-bank-ledger/internal/common"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/models"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Row is one transaction on the statement. Exactly one of Debit and Credit is
// non-zero.
type Row struct {
	Timestamp   time.Time
	Description string
	Type        models.TransactionType
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

type Statement struct {
	Holder        string
	AccountNumber string
	From, To      time.Time // inclusive calendar days, UTC
	GeneratedAt   time.Time

	Rows           []Row // oldest first
	OpeningBalance decimal.Decimal
	TotalDebits    decimal.Decimal
	TotalCredits   decimal.Decimal
	// ClosingBalance is the balance at the end of To. CurrentBalance is the
	// live balance, which differs when there was activity after To.
	ClosingBalance decimal.Decimal
	CurrentBalance decimal.Decimal
}

// ParseRange parses two YYYY-MM-DD dates.
func ParseRange(from, to string) (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, from)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: bad start date %q", common.ErrInvalidDateRange, from)
	}
	end, err := time.Parse(dateLayout, to)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: bad end date %q", common.ErrInvalidDateRange, to)
	}
	return start, end, nil
}

// Build assembles the statement of account for the days from..to. txs are the
// account's records in any order.
func Build(holder string, account models.Account, txs []models.Transaction, from, to, generatedAt time.Time) (*Statement, error) {
	start := truncateDay(from)
	end := truncateDay(to)
	if start.After(end) {
		return nil, common.ErrInvalidDateRange
	}
	endExclusive := end.AddDate(0, 0, 1)

	sorted := append([]models.Transaction(nil), txs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	st := &Statement{
		Holder:         holder,
		AccountNumber:  account.Number,
		From:           start,
		To:             end,
		GeneratedAt:    generatedAt,
		CurrentBalance: account.Balance,
		TotalDebits:    decimal.Zero,
		TotalCredits:   decimal.Zero,
	}

	later := decimal.Zero
	for _, tx := range sorted {
		if tx.AccountNumber != account.Number {
			continue
		}
		ts := tx.Timestamp.UTC()
		switch {
		case !ts.Before(endExclusive):
			later = later.Add(tx.SignedAmount())
		case !ts.Before(start):
			row := Row{Timestamp: ts, Description: tx.Description, Type: tx.Type, Debit: decimal.Zero, Credit: decimal.Zero}
			if tx.Type.IsCredit() {
				row.Credit = tx.Amount
				st.TotalCredits = st.TotalCredits.Add(tx.Amount)
			} else {
				row.Debit = tx.Amount
				st.TotalDebits = st.TotalDebits.Add(tx.Amount)
			}
			st.Rows = append(st.Rows, row)
		}
	}

	st.ClosingBalance = account.Balance.Sub(later)
	st.OpeningBalance = st.ClosingBalance.Sub(st.TotalCredits).Add(st.TotalDebits)
	return st, nil
}

// FileName returns the download name without extension.
func (s *Statement) FileName() string {
	return fmt.Sprintf("statement_%s_%s", s.AccountNumber, s.GeneratedAt.UTC().Format(dateLayout))
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
