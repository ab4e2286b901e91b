package export

import (
	"fmt"
	"io"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/xuri/excelize/v2"
)

const ledgerSheet = "Ledger"

// WriteLedgerXLSX writes the ledger as a single-sheet workbook. The opening
// balance sits above the header so the Balance column can be re-derived.
func WriteLedgerXLSX(w io.Writer, ledger *domain.Ledger) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ledgerSheet); err != nil {
		return fmt.Errorf("failed to name ledger sheet: %w", err)
	}

	title := fmt.Sprintf("%s %s", ledger.Account.Code, ledger.Account.Name)
	if err := f.SetSheetRow(ledgerSheet, "A1", &[]interface{}{title, "Opening balance", formatAmount(ledger.OpeningBalance)}); err != nil {
		return fmt.Errorf("failed to write ledger title: %w", err)
	}

	header := make([]interface{}, len(LedgerColumns))
	for i, c := range LedgerColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(ledgerSheet, "A3", &header); err != nil {
		return fmt.Errorf("failed to write ledger header: %w", err)
	}

	for i, row := range ledger.Rows {
		rowNo := i + 4
		cell, err := excelize.CoordinatesToCellName(1, rowNo)
		if err != nil {
			return err
		}
		values := []interface{}{
			row.Date.Format(domain.DateLayout),
			row.Reference,
			row.Description,
			row.Debit.InexactFloat64(),
			row.Credit.InexactFloat64(),
			row.RunningBalance.InexactFloat64(),
		}
		if err := f.SetSheetRow(ledgerSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write ledger row %s: %w", row.ItemID, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
