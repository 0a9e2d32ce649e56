package statement

import (
	"encoding/csv"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
)

const bankName = "Zenith Bank"

func amountCell(d decimal.Decimal, sign string) string {
	if d.IsZero() {
		return ""
	}
	return sign + d.StringFixed(2)
}

// RenderText writes the statement as an aligned plain-text table.
func RenderText(w io.Writer, s *Statement) error {
	fmt.Fprintf(w, "%s\nAccount Statement\n\n", bankName)
	fmt.Fprintf(w, "Account Holder:   %s\n", s.Holder)
	fmt.Fprintf(w, "Account Number:   %s\n", s.AccountNumber)
	fmt.Fprintf(w, "Statement Period: %s to %s\n", s.From.Format(dateLayout), s.To.Format(dateLayout))
	fmt.Fprintf(w, "Generated On:     %s\n\n", s.GeneratedAt.UTC().Format(time.RFC3339))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Date\tDescription\tType\tDebit (-)\tCredit (+)\t")
	fmt.Fprintf(tw, "\tOpening Balance\t\t\t%s\t\n", s.OpeningBalance.StringFixed(2))
	for _, r := range s.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n",
			r.Timestamp.Format("2006-01-02 15:04"), r.Description, r.Type,
			amountCell(r.Debit, "-"), amountCell(r.Credit, "+"))
	}
	fmt.Fprintf(tw, "\tTotals\t\t%s\t%s\t\n", s.TotalDebits.StringFixed(2), s.TotalCredits.StringFixed(2))
	fmt.Fprintf(tw, "\tClosing Balance\t\t\t%s\t\n", s.ClosingBalance.StringFixed(2))
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\nCurrent Balance: %s\n", s.CurrentBalance.StringFixed(2))
	return err
}

// RenderCSV writes one header line, one line per row and a closing balance line.
func RenderCSV(w io.Writer, s *Statement) error {
	cw := csv.NewWriter(w)
	records := [][]string{{"date", "description", "type", "debit", "credit", "balance"}}

	running := s.OpeningBalance
	for _, r := range s.Rows {
		running = running.Add(r.Credit).Sub(r.Debit)
		records = append(records, []string{
			r.Timestamp.Format(time.RFC3339), r.Description, string(r.Type),
			amountCell(r.Debit, ""), amountCell(r.Credit, ""), running.StringFixed(2),
		})
	}
	records = append(records, []string{s.To.Format(dateLayout), "Closing Balance", "", "", "", s.ClosingBalance.StringFixed(2)})

	if err := cw.WriteAll(records); err != nil {
		return err
	}
	return cw.Error()
}
