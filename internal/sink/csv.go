package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	interfaces "github.com/sheikh-saqib/ledger-replay/internal/interfaces"
	"github.com/sheikh-saqib/ledger-replay/internal/models"
)

// Places is the number of fractional digits kept in emitted amounts.
const Places = 4

var header = []string{"client", "available", "held", "total", "locked"}

// CSVWriter writes the account table as CSV.
type CSVWriter struct {
	out io.Writer
}

func NewCSVWriter(out io.Writer) *CSVWriter {
	return &CSVWriter{out: out}
}

// WriteAccounts writes a header row followed by one row per account.
func (w *CSVWriter) WriteAccounts(ctx context.Context, accounts []models.Account) error {
	writer := csv.NewWriter(w.out)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, account := range accounts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writer.Write(Row(account)); err != nil {
			return fmt.Errorf("failed to write account %d: %w", account.Client, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush accounts: %w", err)
	}
	return nil
}

// Row renders an account in output column order. Total is the sum of the
// rounded available and held columns, so the emitted row always adds up.
func Row(account models.Account) []string {
	available := round(account.Available)
	held := round(account.Held)
	return []string{
		strconv.FormatUint(uint64(account.Client), 10),
		available.String(),
		held.String(),
		available.Add(held).String(),
		strconv.FormatBool(account.Locked),
	}
}

// FormatAmount rounds half to even at four places and drops trailing zeros.
func FormatAmount(d decimal.Decimal) string {
	return round(d).String()
}

func round(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(Places)
}

var _ interfaces.AccountSink = (*CSVWriter)(nil)
