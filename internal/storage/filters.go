package storage

import (
	"time"

	"bilancio/internal/core"
)

// Query options are plain values built by the caller. Optional fields are
// pointers or flags; nothing is assembled dynamically at the call site.
type (
	// TransactionFilter narrows ListTransactions. Zero value lists
	// everything for the user, newest first.
	TransactionFilter struct {
		Type       *core.TransactionType
		CategoryID *string
		From       *time.Time
		To         *time.Time
		Limit      int
		Offset     int

		// Ascending flips the date ordering; the trend series wants
		// oldest first.
		Ascending bool
	}

	// BudgetFilter narrows ListBudgets. ActiveOnly keeps budgets whose
	// window covers now.
	BudgetFilter struct {
		ActiveOnly bool
		Now        time.Time
	}

	// RecurringFilter narrows ListRecurring.
	RecurringFilter struct {
		ActiveOnly bool

		// NotExpiredAt, when set, keeps templates with no end date or an
		// end date at or after the given instant.
		NotExpiredAt *time.Time
	}

	// PlannedFilter narrows ListPlanned.
	PlannedFilter struct {
		UnpaidOnly bool
		From       *time.Time
		To         *time.Time
	}
)
