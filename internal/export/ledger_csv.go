// Package export renders account ledgers as downloadable files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerColumns is the column order shared by every ledger export format.
var LedgerColumns = []string{"Date", "Reference", "Memo", "Debit", "Credit", "Balance"}

const amountPlaces = 2

func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(amountPlaces)
}

func ledgerRecord(row domain.LedgerRow) []string {
	return []string{
		row.Date.Format(domain.DateLayout),
		row.Reference,
		row.Description,
		formatAmount(row.Debit),
		formatAmount(row.Credit),
		formatAmount(row.RunningBalance),
	}
}

// WriteLedgerCSV writes a header and one record per ledger row.
func WriteLedgerCSV(w io.Writer, ledger *domain.Ledger) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(LedgerColumns); err != nil {
		return fmt.Errorf("failed to write ledger header: %w", err)
	}
	for _, row := range ledger.Rows {
		if err := cw.Write(ledgerRecord(row)); err != nil {
			return fmt.Errorf("failed to write ledger row %s: %w", row.ItemID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
