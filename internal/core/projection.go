package core

import (
	"math"
	"time"
)

// DefaultProjectionMonths is the horizon used when the caller does not ask
// for a specific one.
const DefaultProjectionMonths = 3

// Projection is the forward-looking balance estimate for one user.
type Projection struct {
	CurrentBalance   Money
	ProjectedIncome  Money
	ProjectedExpense Money
	ProjectedBalance Money
	ProjectionMonths int
	RecurringCount   int
	PlannedCount     int
}

// Occurrences converts a recurrence frequency and a horizon in whole months
// into the expected number of occurrences inside that horizon:
//
//	WEEKLY  -> months * 4   (flat four weeks per month, not calendar-accurate)
//	MONTHLY -> months
//	YEARLY  -> months / 12  (fractional, unrounded)
//
// The count depends on nothing but the frequency: start date, end date, and
// day of month are display metadata as far as counting goes, and partial
// first or last periods are not prorated.
func Occurrences(f Frequency, months int) float64 {
	switch f {
	case Weekly:
		return float64(months * 4)
	case Monthly:
		return float64(months)
	case Yearly:
		return float64(months) / 12
	}
	return 0
}

// recurringEligible reports whether a recurring template participates in a
// projection taken at now: it must be active and not expired. A start date
// in the future does not exclude it.
func recurringEligible(r RecurringTransaction, now time.Time) bool {
	if !r.IsActive {
		return false
	}
	return r.EndDate == nil || !r.EndDate.Before(now)
}

// Project estimates the balance months from now. The current balance comes
// from the whole transaction history, with no date filter. On top of it,
// every eligible recurring template contributes amount x occurrences, and
// every unpaid planned transaction dated inside [now, now+months] contributes
// its amount, each accumulated into the projected income or expense side by
// type. Fractional-cent contributions (the YEARLY case) round half away from
// zero per item.
//
// The whole computation is read-only and runs in one pass per input slice.
func Project(now time.Time, months int, history []Transaction, recurring []RecurringTransaction, planned []PlannedTransaction) Projection {
	income := Income
	expense := Expense
	in, _ := SumTransactions(history, SumFilter{Type: &income})
	out, _ := SumTransactions(history, SumFilter{Type: &expense})

	p := Projection{
		CurrentBalance:   in.Sub(out),
		ProjectionMonths: months,
	}

	var projectedIn, projectedOut int64
	for _, r := range recurring {
		if !recurringEligible(r, now) {
			continue
		}
		cents := int64(math.Round(float64(r.Amount.Cents) * Occurrences(r.Frequency, months)))
		if r.Type == Income {
			projectedIn += cents
		} else {
			projectedOut += cents
		}
		p.RecurringCount++
	}

	horizon := now.AddDate(0, months, 0)
	for _, pl := range planned {
		if pl.IsPaid {
			continue
		}
		if pl.PlannedDate.Before(now) || pl.PlannedDate.After(horizon) {
			continue
		}
		if pl.Type == Income {
			projectedIn += pl.Amount.Cents
		} else {
			projectedOut += pl.Amount.Cents
		}
		p.PlannedCount++
	}

	p.ProjectedIncome = Money{Cents: projectedIn}
	p.ProjectedExpense = Money{Cents: projectedOut}
	p.ProjectedBalance = p.CurrentBalance.Add(p.ProjectedIncome).Sub(p.ProjectedExpense)
	return p
}
