package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"bilancio/internal/core"
	"bilancio/internal/storage"
)

func TestPlannedServiceMarkAsPaid(t *testing.T) {
	store := newFakeStore()
	userID := seedUser(t, store)
	svc := NewPlannedService(store, nil)

	planned, err := svc.Create(context.Background(), userID, core.PlannedTransaction{
		Amount:      core.Money{Cents: 35000},
		Type:        core.Expense,
		Description: "assicurazione",
		PlannedDate: day(2025, time.June, 1),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	realized, paid, err := svc.MarkAsPaid(context.Background(), userID, planned.ID)
	if err != nil {
		t.Fatalf("MarkAsPaid: %v", err)
	}

	if !paid.IsPaid {
		t.Error("planned transaction should be flagged paid")
	}
	if realized.Amount.Cents != 35000 || realized.Type != core.Expense {
		t.Errorf("realized transaction = %+v, want amount 35000 EXPENSE", realized)
	}
	if realized.Description != "assicurazione" {
		t.Errorf("realized description = %q, want %q", realized.Description, "assicurazione")
	}

	// The ledger must now contain the realized movement.
	if _, err := store.GetTransaction(context.Background(), userID, realized.ID); err != nil {
		t.Errorf("realized transaction not in ledger: %v", err)
	}

	t.Run("paying twice fails", func(t *testing.T) {
		_, _, err := svc.MarkAsPaid(context.Background(), userID, planned.ID)
		if !errors.Is(err, core.ErrAlreadyPaid) {
			t.Errorf("MarkAsPaid() error = %v, want ErrAlreadyPaid", err)
		}
	})

	t.Run("paid row is kept as history", func(t *testing.T) {
		got, err := svc.Get(context.Background(), userID, planned.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if !got.IsPaid {
			t.Error("planned row should remain, flagged paid")
		}
	})
}

func TestPlannedServiceUpdatePaidRejected(t *testing.T) {
	store := newFakeStore()
	userID := seedUser(t, store)
	svc := NewPlannedService(store, nil)

	planned, err := svc.Create(context.Background(), userID, core.PlannedTransaction{
		Amount:      core.Money{Cents: 1000},
		Type:        core.Expense,
		Description: "bolletta",
		PlannedDate: day(2025, time.June, 1),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, _, err := svc.MarkAsPaid(context.Background(), userID, planned.ID); err != nil {
		t.Fatalf("MarkAsPaid: %v", err)
	}

	planned.Description = "bolletta luce"
	if _, err := svc.Update(context.Background(), userID, planned); !errors.Is(err, core.ErrAlreadyPaid) {
		t.Errorf("Update() of paid row = %v, want ErrAlreadyPaid", err)
	}
}

func TestPlannedServiceListUnpaidWindow(t *testing.T) {
	store := newFakeStore()
	userID := seedUser(t, store)
	svc := NewPlannedService(store, nil)

	seed := []core.PlannedTransaction{
		{Amount: core.Money{Cents: 100}, Type: core.Expense, Description: "a", PlannedDate: day(2025, time.May, 1)},
		{Amount: core.Money{Cents: 200}, Type: core.Expense, Description: "b", PlannedDate: day(2025, time.July, 1)},
		{Amount: core.Money{Cents: 300}, Type: core.Expense, Description: "c", PlannedDate: day(2025, time.December, 1)},
	}
	for _, p := range seed {
		if _, err := svc.Create(context.Background(), userID, p); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	got, err := svc.List(context.Background(), userID, storage.PlannedFilter{
		UnpaidOnly: true,
		From:       ptr(day(2025, time.June, 1)),
		To:         ptr(day(2025, time.September, 1)),
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].Description != "b" {
		t.Errorf("List() = %+v, want only %q", got, "b")
	}
}
