package core

import (
	"errors"
	"testing"
	"time"
)

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

func TestTransactionTypeValidate(t *testing.T) {
	if err := Income.Validate(); err != nil {
		t.Fatalf("INCOME expected ok, got %v", err)
	}
	if err := Expense.Validate(); err != nil {
		t.Fatalf("EXPENSE expected ok, got %v", err)
	}
	if err := TransactionType("TRANSFER").Validate(); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Amount: Money{Cents: 1250},
		Type:   Expense,
		Date:   day(2025, 1, 15),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		tx   Transaction
		want error
	}{
		{"zero amount", Transaction{Amount: Money{}, Type: Expense, Date: day(2025, 1, 1)}, ErrInvalidAmount},
		{"negative amount", Transaction{Amount: Money{Cents: -5}, Type: Income, Date: day(2025, 1, 1)}, ErrInvalidAmount},
		{"bad type", Transaction{Amount: Money{Cents: 1}, Type: "X", Date: day(2025, 1, 1)}, ErrInvalidType},
		{"zero date", Transaction{Amount: Money{Cents: 1}, Type: Income}, ErrZeroDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.tx.Validate(); !errors.Is(err, tc.want) {
				t.Errorf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCategoryValidate(t *testing.T) {
	good := Category{Name: "Cibo", Type: Expense}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Category{Name: "  ", Type: Expense}).Validate(); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if err := (Category{Name: "Cibo", Type: "BOTH"}).Validate(); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestBudgetValidate(t *testing.T) {
	good := Budget{
		Name:      "Spesa mensile",
		Amount:    Money{Cents: 50000},
		Period:    Monthly,
		StartDate: day(2025, 1, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		b    Budget
		want error
	}{
		{"zero amount", Budget{Name: "b", Period: Monthly, StartDate: day(2025, 1, 1)}, ErrInvalidAmount},
		{"bad period", Budget{Name: "b", Amount: Money{Cents: 1}, Period: "DAILY", StartDate: day(2025, 1, 1)}, ErrInvalidPeriod},
		{"zero start", Budget{Name: "b", Amount: Money{Cents: 1}, Period: Weekly}, ErrZeroDate},
		{"end before start", Budget{Name: "b", Amount: Money{Cents: 1}, Period: Yearly, StartDate: day(2025, 2, 1), EndDate: ptr(day(2025, 1, 1))}, ErrEndBeforeStart},
		{"empty name", Budget{Amount: Money{Cents: 1}, Period: Monthly, StartDate: day(2025, 1, 1)}, ErrEmptyName},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.b.Validate(); !errors.Is(err, tc.want) {
				t.Errorf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestRecurringTransactionValidate(t *testing.T) {
	base := RecurringTransaction{
		Amount:      Money{Cents: 5000},
		Type:        Expense,
		Description: "affitto",
		Frequency:   Monthly,
		DayOfMonth:  ptr(1),
		StartDate:   day(2025, 1, 1),
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*RecurringTransaction)
		want   error
	}{
		{"monthly without day", func(r *RecurringTransaction) { r.DayOfMonth = nil }, ErrInvalidDayOfMonth},
		{"day out of range", func(r *RecurringTransaction) { r.DayOfMonth = ptr(32) }, ErrInvalidDayOfMonth},
		{"day zero", func(r *RecurringTransaction) { r.DayOfMonth = ptr(0) }, ErrInvalidDayOfMonth},
		{"weekly with day", func(r *RecurringTransaction) { r.Frequency = Weekly; r.DayOfMonth = ptr(5) }, ErrInvalidDayOfMonth},
		{"bad frequency", func(r *RecurringTransaction) { r.Frequency = "DAILY"; r.DayOfMonth = nil }, ErrInvalidFrequency},
		{"empty description", func(r *RecurringTransaction) { r.Description = " " }, ErrEmptyDescription},
		{"end before start", func(r *RecurringTransaction) { r.EndDate = ptr(day(2024, 12, 1)) }, ErrEndBeforeStart},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := base
			tc.mutate(&r)
			if err := r.Validate(); !errors.Is(err, tc.want) {
				t.Errorf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}

	weekly := base
	weekly.Frequency = Weekly
	weekly.DayOfMonth = nil
	if err := weekly.Validate(); err != nil {
		t.Fatalf("weekly without day expected ok, got %v", err)
	}
}

func TestPlannedTransactionValidate(t *testing.T) {
	good := PlannedTransaction{
		Amount:      Money{Cents: 20000},
		Type:        Expense,
		Description: "assicurazione",
		PlannedDate: day(2025, 6, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bad := good
	bad.PlannedDate = time.Time{}
	if err := bad.Validate(); !errors.Is(err, ErrZeroDate) {
		t.Fatalf("expected ErrZeroDate, got %v", err)
	}
}

func TestCheckCategoryRef(t *testing.T) {
	exp := &Category{ID: "c1", Name: "Cibo", Type: Expense}

	if err := CheckCategoryRef(nil, Income); err != nil {
		t.Fatalf("nil category expected ok, got %v", err)
	}
	if err := CheckCategoryRef(exp, Expense); err != nil {
		t.Fatalf("matching type expected ok, got %v", err)
	}
	if err := CheckCategoryRef(exp, Income); !errors.Is(err, ErrCategoryTypeMismatch) {
		t.Fatalf("expected ErrCategoryTypeMismatch, got %v", err)
	}
}
