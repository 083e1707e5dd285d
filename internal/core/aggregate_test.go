package core

import (
	"testing"
	"time"
)

func tx(typ TransactionType, cents int64, date time.Time, categoryID *string) Transaction {
	return Transaction{
		Amount:     Money{Cents: cents},
		Type:       typ,
		Date:       date,
		CategoryID: categoryID,
		UserID:     "u1",
	}
}

func TestSumTransactions(t *testing.T) {
	catFood := "cat-food"
	txs := []Transaction{
		tx(Income, 100000, day(2025, 1, 1), nil),
		tx(Expense, 30000, day(2025, 1, 15), &catFood),
		tx(Expense, 8000, day(2024, 12, 20), &catFood),
		tx(Expense, 2500, day(2025, 2, 3), nil),
	}
	income := Income
	expense := Expense
	from := day(2025, 1, 1)
	to := day(2025, 1, 31)

	cases := []struct {
		name      string
		filter    SumFilter
		wantCents int64
		wantCount int
	}{
		{"no filter", SumFilter{}, 140500, 4},
		{"income only", SumFilter{Type: &income}, 100000, 1},
		{"expense only", SumFilter{Type: &expense}, 40500, 3},
		{"category", SumFilter{Type: &expense, CategoryID: &catFood}, 38000, 2},
		{"range", SumFilter{Range: DateRange{From: &from, To: &to}}, 130000, 2},
		{"open lower bound", SumFilter{Range: DateRange{To: &to}}, 138000, 3},
		{"category and range", SumFilter{Type: &expense, CategoryID: &catFood, Range: DateRange{From: &from}}, 30000, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, count := SumTransactions(txs, tc.filter)
			if got.Cents != tc.wantCents {
				t.Errorf("sum = %d, want %d", got.Cents, tc.wantCents)
			}
			if count != tc.wantCount {
				t.Errorf("count = %d, want %d", count, tc.wantCount)
			}
		})
	}
}

func TestSumTransactionsRangeBoundsInclusive(t *testing.T) {
	from := day(2025, 1, 1)
	to := day(2025, 1, 31)
	txs := []Transaction{
		tx(Expense, 100, from, nil),
		tx(Expense, 200, to, nil),
		tx(Expense, 400, day(2025, 2, 1), nil),
	}
	got, count := SumTransactions(txs, SumFilter{Range: DateRange{From: &from, To: &to}})
	if got.Cents != 300 || count != 2 {
		t.Fatalf("sum, count = %d, %d; want 300, 2", got.Cents, count)
	}
}

func TestSummarize(t *testing.T) {
	txs := []Transaction{
		tx(Income, 100000, day(2025, 1, 1), nil),
		tx(Income, 5025, day(2025, 1, 10), nil),
		tx(Expense, 30000, day(2025, 1, 15), nil),
		tx(Expense, 1999, day(2025, 1, 20), nil),
	}
	s := Summarize(txs, DateRange{})
	if s.Income.Cents != 105025 {
		t.Errorf("income = %d, want 105025", s.Income.Cents)
	}
	if s.Expense.Cents != 31999 {
		t.Errorf("expense = %d, want 31999", s.Expense.Cents)
	}
	if s.Balance.Cents != s.Income.Cents-s.Expense.Cents {
		t.Errorf("balance = %d, want income-expense = %d", s.Balance.Cents, s.Income.Cents-s.Expense.Cents)
	}
	if s.TransactionCount != 4 {
		t.Errorf("count = %d, want 4", s.TransactionCount)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, DateRange{})
	if s.Income.Cents != 0 || s.Expense.Cents != 0 || s.Balance.Cents != 0 || s.TransactionCount != 0 {
		t.Fatalf("empty summary not zero: %+v", s)
	}
}

func TestCategoryStats(t *testing.T) {
	catFood := "cat-food"
	catRent := "cat-rent"
	catSalary := "cat-salary"
	categories := map[string]Category{
		catFood:   {ID: catFood, Name: "Cibo", Type: Expense, Color: "#ff0000"},
		catRent:   {ID: catRent, Name: "Affitto", Type: Expense, Color: "#00ff00"},
		catSalary: {ID: catSalary, Name: "Stipendio", Type: Income, Color: "#0000ff"},
	}
	txs := []Transaction{
		tx(Expense, 10000, day(2025, 1, 2), &catFood),
		tx(Expense, 15000, day(2025, 1, 3), &catFood),
		tx(Expense, 80000, day(2025, 1, 1), &catRent),
		tx(Expense, 500, day(2025, 1, 4), nil),
		tx(Income, 200000, day(2025, 1, 1), &catSalary),
		tx(Income, 700, day(2025, 1, 5), nil),
	}

	stats := CategoryStats(txs, categories)
	if len(stats) != 5 {
		t.Fatalf("expected 5 buckets, got %d", len(stats))
	}

	// Descending by total: salary 2000, rent 800, food 250, income-uncat 7, expense-uncat 5.
	wantOrder := []struct {
		name  string
		typ   TransactionType
		total int64
		count int
	}{
		{"Stipendio", Income, 200000, 1},
		{"Affitto", Expense, 80000, 1},
		{"Cibo", Expense, 25000, 2},
		{UncategorizedName, Income, 700, 1},
		{UncategorizedName, Expense, 500, 1},
	}
	for i, want := range wantOrder {
		got := stats[i]
		if got.CategoryName != want.name || got.Type != want.typ || got.Total.Cents != want.total || got.Count != want.count {
			t.Errorf("stats[%d] = {%s %s %d %d}, want {%s %s %d %d}",
				i, got.CategoryName, got.Type, got.Total.Cents, got.Count,
				want.name, want.typ, want.total, want.count)
		}
	}

	// Uncategorized buckets carry the placeholder color and a nil id.
	for _, s := range stats {
		if s.CategoryName == UncategorizedName {
			if s.CategoryID != nil {
				t.Errorf("uncategorized bucket has id %v", *s.CategoryID)
			}
			if s.CategoryColor != UncategorizedColor {
				t.Errorf("uncategorized color = %s, want %s", s.CategoryColor, UncategorizedColor)
			}
		}
	}
}

func TestCategoryStatsPartitionIsExhaustive(t *testing.T) {
	catFood := "cat-food"
	txs := []Transaction{
		tx(Expense, 123, day(2025, 1, 1), &catFood),
		tx(Expense, 456, day(2025, 1, 2), nil),
		tx(Expense, 789, day(2025, 1, 3), &catFood),
		tx(Income, 999, day(2025, 1, 4), nil),
	}
	stats := CategoryStats(txs, nil)

	var expenseTotal int64
	for _, s := range stats {
		if s.Type == Expense {
			expenseTotal += s.Total.Cents
		}
	}
	expense := Expense
	want, _ := SumTransactions(txs, SumFilter{Type: &expense})
	if expenseTotal != want.Cents {
		t.Fatalf("expense stats sum = %d, want unfiltered expense total %d", expenseTotal, want.Cents)
	}
}

func TestMonthlyTrend(t *testing.T) {
	txs := []Transaction{
		tx(Income, 100000, day(2025, 1, 1), nil),
		tx(Expense, 30000, day(2025, 1, 15), nil),
		// February has no transactions at all.
		tx(Expense, 4200, day(2025, 3, 2), nil),
		tx(Income, 5000, day(2025, 3, 20), nil),
	}
	trend := MonthlyTrend(txs, day(2024, 12, 1))
	if len(trend) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(trend))
	}
	jan := trend[0]
	if jan.Month != "2025-01" || jan.Income.Cents != 100000 || jan.Expense.Cents != 30000 || jan.Balance.Cents != 70000 {
		t.Errorf("january bucket = %+v", jan)
	}
	mar := trend[1]
	if mar.Month != "2025-03" || mar.Income.Cents != 5000 || mar.Expense.Cents != 4200 || mar.Balance.Cents != 800 {
		t.Errorf("march bucket = %+v", mar)
	}
}

func TestMonthlyTrendCutoff(t *testing.T) {
	txs := []Transaction{
		tx(Expense, 100, day(2024, 6, 1), nil),
		tx(Expense, 200, day(2025, 1, 10), nil),
	}
	trend := MonthlyTrend(txs, day(2024, 12, 1))
	if len(trend) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(trend))
	}
	if trend[0].Month != "2025-01" {
		t.Errorf("month = %s, want 2025-01", trend[0].Month)
	}
}

func TestMonthlyTrendBalanceNotCumulative(t *testing.T) {
	txs := []Transaction{
		tx(Income, 10000, day(2025, 1, 1), nil),
		tx(Expense, 2000, day(2025, 2, 1), nil),
	}
	trend := MonthlyTrend(txs, day(2025, 1, 1))
	if trend[1].Balance.Cents != -2000 {
		t.Fatalf("february balance = %d, want -2000 (per-month, not cumulative)", trend[1].Balance.Cents)
	}
}
