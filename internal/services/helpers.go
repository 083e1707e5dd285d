package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"bilancio/internal/amqp"
	"bilancio/internal/core"
	"bilancio/internal/storage"
)

// categoryStore is the slice of the repository the reference check needs.
type categoryStore interface {
	GetCategory(ctx context.Context, userID, id string) (core.Category, error)
}

// checkCategoryRef resolves an optional category reference and verifies its
// type matches the item it is attached to. A nil reference passes.
func checkCategoryRef(ctx context.Context, store categoryStore, userID string, categoryID *string, typ core.TransactionType) error {
	if categoryID == nil {
		return nil
	}
	cat, err := store.GetCategory(ctx, userID, *categoryID)
	if errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("category %s: %w", *categoryID, core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("resolve category: %w", err)
	}
	return core.CheckCategoryRef(&cat, typ)
}

// isUniqueViolation reports whether the storage error is a UNIQUE constraint
// failure, which surfaces to callers as ErrDuplicateName.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// publishLedgerEvent notifies the export worker. Publishing is best effort:
// the write already committed, so a broker hiccup must not fail the request.
func publishLedgerEvent(ctx context.Context, client *amqp.Client, kind, transactionID, userID string) {
	if client == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping ledger event",
			"kind", kind, "transaction_id", transactionID)
		return
	}
	if err := client.PublishLedgerEvent(ctx, kind, transactionID, userID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"kind", kind, "transaction_id", transactionID, "error", err)
	}
}

var _ categoryStore = (*storage.SQLiteRepository)(nil)
