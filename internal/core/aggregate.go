package core

import (
	"sort"
	"time"
)

// Placeholder bucket for transactions that carry no category.
const (
	UncategorizedName  = "Senza categoria"
	UncategorizedColor = "#gray"
)

type (
	// DateRange is an inclusive [From, To] window. A nil bound is open.
	DateRange struct {
		From *time.Time
		To   *time.Time
	}

	// SumFilter narrows which transactions a sum considers. All fields are
	// optional; the zero value matches everything. Filters are built by the
	// caller as plain values, never assembled dynamically.
	SumFilter struct {
		Type       *TransactionType
		CategoryID *string
		Range      DateRange
	}

	// Summary is the dashboard headline for a period.
	Summary struct {
		Income           Money
		Expense          Money
		Balance          Money
		TransactionCount int
		Period           DateRange
	}

	// CategoryStat is one aggregation bucket of the per-category breakdown.
	// CategoryID is nil for the uncategorized bucket.
	CategoryStat struct {
		CategoryID    *string
		CategoryName  string
		CategoryColor string
		Type          TransactionType
		Total         Money
		Count         int
	}

	// TrendPoint is one month of the trend series, keyed "YYYY-MM".
	// Balance is income minus expense for that month alone, not cumulative.
	TrendPoint struct {
		Month   string
		Income  Money
		Expense Money
		Balance Money
	}
)

// Contains reports whether d falls inside the range, bounds included.
func (r DateRange) Contains(d time.Time) bool {
	if r.From != nil && d.Before(*r.From) {
		return false
	}
	if r.To != nil && d.After(*r.To) {
		return false
	}
	return true
}

// SumTransactions returns the total amount and row count of the
// transactions matching the filter. Sums stay in integer cents, so
// repeated addition cannot drift.
func SumTransactions(txs []Transaction, f SumFilter) (Money, int) {
	var total int64
	count := 0
	for _, t := range txs {
		if f.Type != nil && t.Type != *f.Type {
			continue
		}
		if f.CategoryID != nil {
			if t.CategoryID == nil || *t.CategoryID != *f.CategoryID {
				continue
			}
		}
		if !f.Range.Contains(t.Date) {
			continue
		}
		total += t.Amount.Cents
		count++
	}
	return Money{Cents: total}, count
}

// Summarize computes income, expense, and balance over the given period.
// The transactions must already be scoped to one user.
func Summarize(txs []Transaction, period DateRange) Summary {
	income := Income
	expense := Expense
	in, _ := SumTransactions(txs, SumFilter{Type: &income, Range: period})
	out, _ := SumTransactions(txs, SumFilter{Type: &expense, Range: period})
	_, count := SumTransactions(txs, SumFilter{Range: period})
	return Summary{
		Income:           in,
		Expense:          out,
		Balance:          in.Sub(out),
		TransactionCount: count,
		Period:           period,
	}
}

type statKey struct {
	categoryID string // "" for uncategorized
	typ        TransactionType
}

// CategoryStats partitions the transactions into per-category buckets,
// independently for each type, and returns them sorted descending by total.
// Transactions without a category fall into a synthetic bucket. The
// categories map resolves names and colors; unknown references still
// aggregate, under the placeholder name.
func CategoryStats(txs []Transaction, categories map[string]Category) []CategoryStat {
	buckets := make(map[statKey]*CategoryStat)
	var order []statKey

	for _, t := range txs {
		key := statKey{typ: t.Type}
		if t.CategoryID != nil {
			key.categoryID = *t.CategoryID
		}
		stat, ok := buckets[key]
		if !ok {
			stat = &CategoryStat{
				Type:          t.Type,
				CategoryName:  UncategorizedName,
				CategoryColor: UncategorizedColor,
			}
			if t.CategoryID != nil {
				stat.CategoryID = t.CategoryID
				if cat, found := categories[*t.CategoryID]; found {
					stat.CategoryName = cat.Name
					if cat.Color != "" {
						stat.CategoryColor = cat.Color
					}
				}
			}
			buckets[key] = stat
			order = append(order, key)
		}
		stat.Total = stat.Total.Add(t.Amount)
		stat.Count++
	}

	stats := make([]CategoryStat, 0, len(order))
	for _, key := range order {
		stats = append(stats, *buckets[key])
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Total.Cents > stats[j].Total.Cents
	})
	return stats
}

// MonthlyTrend buckets the transactions dated on or after from into calendar
// months. Only months with at least one transaction appear; the series is in
// the order months are first encountered, so callers that pass transactions
// sorted ascending by date get a chronological series.
func MonthlyTrend(txs []Transaction, from time.Time) []TrendPoint {
	points := make(map[string]*TrendPoint)
	var order []string

	for _, t := range txs {
		if t.Date.Before(from) {
			continue
		}
		month := t.Date.Format("2006-01")
		p, ok := points[month]
		if !ok {
			p = &TrendPoint{Month: month}
			points[month] = p
			order = append(order, month)
		}
		if t.Type == Income {
			p.Income = p.Income.Add(t.Amount)
		} else {
			p.Expense = p.Expense.Add(t.Amount)
		}
		p.Balance = p.Income.Sub(p.Expense)
	}

	trend := make([]TrendPoint, 0, len(order))
	for _, month := range order {
		trend = append(trend, *points[month])
	}
	return trend
}
