package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"bilancio/internal/core"
)

func TestRecurringServiceCreateValidation(t *testing.T) {
	store := newFakeStore()
	userID := seedUser(t, store)
	svc := NewRecurringService(store)

	tests := []struct {
		name    string
		rec     core.RecurringTransaction
		wantErr error
	}{
		{
			name: "monthly with day of month",
			rec: core.RecurringTransaction{
				Amount:      core.Money{Cents: 120000},
				Type:        core.Expense,
				Description: "affitto",
				Frequency:   core.Monthly,
				DayOfMonth:  ptr(1),
				StartDate:   day(2025, time.January, 1),
				IsActive:    true,
			},
		},
		{
			name: "monthly without day of month rejected",
			rec: core.RecurringTransaction{
				Amount:      core.Money{Cents: 120000},
				Type:        core.Expense,
				Description: "affitto",
				Frequency:   core.Monthly,
				StartDate:   day(2025, time.January, 1),
			},
			wantErr: core.ErrInvalidDayOfMonth,
		},
		{
			name: "weekly with day of month rejected",
			rec: core.RecurringTransaction{
				Amount:      core.Money{Cents: 500},
				Type:        core.Expense,
				Description: "palestra",
				Frequency:   core.Weekly,
				DayOfMonth:  ptr(3),
				StartDate:   day(2025, time.January, 1),
			},
			wantErr: core.ErrInvalidDayOfMonth,
		},
		{
			name: "unknown frequency rejected",
			rec: core.RecurringTransaction{
				Amount:      core.Money{Cents: 500},
				Type:        core.Expense,
				Description: "boh",
				Frequency:   core.Frequency("DAILY"),
				StartDate:   day(2025, time.January, 1),
			},
			wantErr: core.ErrInvalidFrequency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), userID, tt.rec)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Create() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Create() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRecurringServiceSetActive(t *testing.T) {
	store := newFakeStore()
	userID := seedUser(t, store)
	svc := NewRecurringService(store)

	rec, err := svc.Create(context.Background(), userID, core.RecurringTransaction{
		Amount:      core.Money{Cents: 999},
		Type:        core.Expense,
		Description: "streaming",
		Frequency:   core.Monthly,
		DayOfMonth:  ptr(15),
		StartDate:   day(2025, time.January, 1),
		IsActive:    true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	paused, err := svc.SetActive(context.Background(), userID, rec.ID, false)
	if err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if paused.IsActive {
		t.Error("template should be paused")
	}

	// Paused templates disappear from the active listing.
	active, err := svc.List(context.Background(), userID, true)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("active list has %d entries, want 0", len(active))
	}

	all, err := svc.List(context.Background(), userID, false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("full list has %d entries, want 1", len(all))
	}

	resumed, err := svc.SetActive(context.Background(), userID, rec.ID, true)
	if err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if !resumed.IsActive {
		t.Error("template should be active again")
	}
}
