package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

const (
	Weekly  Frequency = "WEEKLY"
	Monthly Frequency = "MONTHLY"
	Yearly  Frequency = "YEARLY"
)

type (
	// TransactionType distinguishes money coming in from money going out.
	TransactionType string

	// Frequency is the cadence of a recurring transaction. It doubles as the
	// informational period label on budgets, which uses the same values.
	Frequency string

	Money struct {
		Cents int64
	}

	// Transaction is a single realized money movement owned by one user.
	Transaction struct {
		ID          string
		Amount      Money
		Type        TransactionType
		Description string
		Date        time.Time
		CategoryID  *string
		UserID      string
	}

	// Category groups transactions of a single type. Name is unique per
	// user and type; the type never changes after creation.
	Category struct {
		ID     string
		Name   string
		Type   TransactionType
		Color  string
		Icon   string
		UserID string
	}

	// Budget is a spending ceiling over [StartDate, EndDate-or-now].
	// A nil CategoryID means the budget covers all expense categories.
	// Period is a display label; it does not move the window.
	Budget struct {
		ID         string
		Name       string
		Amount     Money
		CategoryID *string
		Period     Frequency
		StartDate  time.Time
		EndDate    *time.Time
		UserID     string
	}

	// RecurringTransaction is a template for a periodic movement. It never
	// generates Transaction rows by itself; it only feeds projections.
	RecurringTransaction struct {
		ID          string
		Amount      Money
		Type        TransactionType
		Description string
		CategoryID  *string
		Frequency   Frequency
		DayOfMonth  *int
		StartDate   time.Time
		EndDate     *time.Time
		IsActive    bool
		UserID      string
	}

	// PlannedTransaction is a single expected future movement, not yet
	// realized into the ledger. Marking it paid creates the Transaction
	// and flips IsPaid; the planned row is kept as history.
	PlannedTransaction struct {
		ID          string
		Amount      Money
		Type        TransactionType
		Description string
		CategoryID  *string
		PlannedDate time.Time
		IsPaid      bool
		Notes       string
		UserID      string
	}
)

var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidType          = errors.New("invalid transaction type")
	ErrInvalidFrequency     = errors.New("invalid frequency")
	ErrInvalidDayOfMonth    = errors.New("invalid day of month (1-31)")
	ErrInvalidPeriod        = errors.New("invalid budget period")
	ErrEmptyName            = errors.New("empty name")
	ErrTooLong              = errors.New("value too long")
	ErrEmptyDescription     = errors.New("empty description")
	ErrZeroDate             = errors.New("date cannot be zero")
	ErrEndBeforeStart       = errors.New("end date must not be before start date")
	ErrCategoryTypeMismatch = errors.New("category type does not match")
	ErrDuplicateName        = errors.New("name already in use")
	ErrNotFound             = errors.New("not found")
	ErrAlreadyPaid          = errors.New("planned transaction already paid")
)

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	}
	return ErrInvalidType
}

func (f Frequency) Validate() error {
	switch f {
	case Weekly, Monthly, Yearly:
		return nil
	}
	return ErrInvalidFrequency
}

// CheckCategoryRef is the single place where the "category type must match
// the item type" rule lives. Every write path that accepts a category
// reference goes through it. A nil category is fine: references are
// optional everywhere.
func CheckCategoryRef(cat *Category, typ TransactionType) error {
	if cat == nil {
		return nil
	}
	if cat.Type != typ {
		return ErrCategoryTypeMismatch
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if t.Date.IsZero() {
		return ErrZeroDate
	}
	if len(t.Description) > 200 {
		return fmt.Errorf("description (max 200 characters): %w", ErrTooLong)
	}
	return nil
}

func (c Category) Validate() error {
	if len(strings.TrimSpace(c.Name)) == 0 {
		return ErrEmptyName
	}
	if len(c.Name) > 100 {
		return fmt.Errorf("name (max 100 characters): %w", ErrTooLong)
	}
	return c.Type.Validate()
}

func (b Budget) Validate() error {
	if len(strings.TrimSpace(b.Name)) == 0 {
		return ErrEmptyName
	}
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if err := b.Period.Validate(); err != nil {
		return ErrInvalidPeriod
	}
	if b.StartDate.IsZero() {
		return ErrZeroDate
	}
	if b.EndDate != nil && b.EndDate.Before(b.StartDate) {
		return ErrEndBeforeStart
	}
	return nil
}

func (r RecurringTransaction) Validate() error {
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if err := r.Type.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(r.Description)) == 0 {
		return ErrEmptyDescription
	}
	if err := r.Frequency.Validate(); err != nil {
		return err
	}
	if r.Frequency == Monthly {
		if r.DayOfMonth == nil || *r.DayOfMonth < 1 || *r.DayOfMonth > 31 {
			return ErrInvalidDayOfMonth
		}
	} else if r.DayOfMonth != nil {
		return ErrInvalidDayOfMonth
	}
	if r.StartDate.IsZero() {
		return ErrZeroDate
	}
	if r.EndDate != nil && r.EndDate.Before(r.StartDate) {
		return ErrEndBeforeStart
	}
	return nil
}

func (p PlannedTransaction) Validate() error {
	if err := p.Amount.Validate(); err != nil {
		return err
	}
	if err := p.Type.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(p.Description)) == 0 {
		return ErrEmptyDescription
	}
	if p.PlannedDate.IsZero() {
		return ErrZeroDate
	}
	return nil
}
