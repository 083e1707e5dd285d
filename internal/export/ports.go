package export

import (
	"context"
	"time"

	"bilancio/internal/core"
)

// LedgerRow is the flattened form of a transaction as it appears in the
// backup spreadsheet.
type LedgerRow struct {
	Date        time.Time
	Type        core.TransactionType
	Description string
	Amount      core.Money
	Category    string
}

// RowFromTransaction flattens a transaction for export. The category name
// is resolved by the caller; an empty string is written as-is.
func RowFromTransaction(tx core.Transaction, categoryName string) LedgerRow {
	return LedgerRow{
		Date:        tx.Date,
		Type:        tx.Type,
		Description: tx.Description,
		Amount:      tx.Amount,
		Category:    categoryName,
	}
}

// Ports for outbound adapters.
type (
	// RowAppender appends a ledger row to an external backup target and
	// returns a reference to the written row.
	RowAppender interface {
		Append(ctx context.Context, row LedgerRow) (rowRef string, err error)
	}
)
