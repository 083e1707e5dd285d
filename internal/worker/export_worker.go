package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"bilancio/internal/amqp"
	"bilancio/internal/core"
	"bilancio/internal/export"
	"bilancio/internal/storage"
)

// ExportWorker mirrors ledger transactions into the Google Sheets backup.
type ExportWorker struct {
	storage   *storage.SQLiteRepository
	sheet     export.RowAppender
	batchSize int
}

func NewExportWorker(storage *storage.SQLiteRepository, sheet export.RowAppender, batchSize int) *ExportWorker {
	return &ExportWorker{
		storage:   storage,
		sheet:     sheet,
		batchSize: batchSize,
	}
}

// HandleLedgerEvent processes a single ledger event from AMQP.
func (w *ExportWorker) HandleLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	slog.InfoContext(ctx, "Processing ledger event",
		"kind", msg.Kind,
		"transaction_id", msg.TransactionID)

	tx, err := w.storage.GetTransaction(ctx, msg.UserID, msg.TransactionID)
	if errors.Is(err, core.ErrNotFound) {
		// The transaction was deleted before we got to it. Requeueing
		// would loop forever, so drop the event.
		slog.WarnContext(ctx, "Transaction gone before export, dropping event",
			"transaction_id", msg.TransactionID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	if err := w.exportTransaction(ctx, tx); err != nil {
		return fmt.Errorf("export transaction to sheets: %w", err)
	}

	return nil
}

// ProcessUnexported drains a batch of transactions that never made it to the
// sheet. This is a backup mechanism in case AMQP messages are lost.
func (w *ExportWorker) ProcessUnexported(ctx context.Context) error {
	pending, err := w.storage.ListUnexportedTransactions(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get unexported transactions: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing unexported transactions", "count", len(pending))

	for _, tx := range pending {
		if err := w.exportTransaction(ctx, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction", "id", tx.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupExportCheck drains the export backlog at worker startup. Useful to
// recover from missed AMQP messages or worker downtime.
func (w *ExportWorker) StartupExportCheck(ctx context.Context) error {
	pending, err := w.storage.ListUnexportedTransactions(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get unexported transactions for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No unexported transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found unexported transactions on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, tx := range pending {
		if err := w.exportTransaction(ctx, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction during startup",
				"id", tx.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup export completed",
		"total", len(pending),
		"exported", successCount,
		"errors", errorCount)

	return nil
}

func (w *ExportWorker) exportTransaction(ctx context.Context, tx core.Transaction) error {
	categoryName := ""
	if tx.CategoryID != nil {
		cat, err := w.storage.GetCategory(ctx, tx.UserID, *tx.CategoryID)
		switch {
		case err == nil:
			categoryName = cat.Name
		case errors.Is(err, core.ErrNotFound):
			// Category deleted since; export without it.
		default:
			return fmt.Errorf("resolve category: %w", err)
		}
	}

	ref, err := w.sheet.Append(ctx, export.RowFromTransaction(tx, categoryName))
	if err != nil {
		return fmt.Errorf("append to sheets: %w", err)
	}

	if err := w.storage.MarkTransactionExported(ctx, tx.ID, time.Now().UTC()); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as exported", "id", tx.ID, "error", err)
		// Don't return an error here, the export actually worked.
	}

	slog.InfoContext(ctx, "Successfully exported transaction",
		"id", tx.ID,
		"sheets_ref", ref,
		"amount_cents", tx.Amount.Cents)

	return nil
}
