// Package export renders a ledger as delimited text for user download and
// round-trip import.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dvloznov/ledger-import/internal/domain"
)

// Header is the exported column order. Re-importing an export resolves
// these names back to canonical fields; Remarks carries the provenance tag.
var Header = []string{"Date", "Type", "Category", "Sub-Category", "Description", "Amount", "Payment Mode", "Remarks"}

// Write emits one row per transaction, dates rendered as DD/MM/YYYY.
func Write(w io.Writer, txs []domain.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("export: writing header: %w", err)
	}

	for _, tx := range txs {
		row := []string{
			fmt.Sprintf("%02d/%02d/%04d", tx.Date.Day, tx.Date.Month, tx.Date.Year),
			string(tx.Type),
			tx.Category,
			tx.SubCategory,
			tx.Description,
			tx.Amount.String(),
			tx.PaymentMode,
			tx.Provenance,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export: writing row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
