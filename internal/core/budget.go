package core

// BudgetEvaluation is the derived state of a budget against its window.
// Percentage is unclamped: an over-budget 120% stays 120%.
type BudgetEvaluation struct {
	Spent      Money
	Remaining  Money
	Percentage float64
}

// EvaluateBudget computes spent, remaining, and consumption percentage for
// one budget. Spent is the sum of EXPENSE transactions inside
// [StartDate, EndDate]; a missing end date leaves the window open up to now.
// If the budget names a category only that category counts, otherwise every
// expense does. Each budget is evaluated independently; nothing is cached.
//
// Creation rejects non-positive amounts, but a zero amount is still guarded
// here: the percentage of nothing is reported as 0 rather than dividing.
func EvaluateBudget(b Budget, txs []Transaction) BudgetEvaluation {
	expense := Expense
	filter := SumFilter{
		Type:       &expense,
		CategoryID: b.CategoryID,
		Range:      DateRange{From: &b.StartDate, To: b.EndDate},
	}
	spent, _ := SumTransactions(txs, filter)

	eval := BudgetEvaluation{
		Spent:     spent,
		Remaining: b.Amount.Sub(spent),
	}
	if b.Amount.Cents != 0 {
		eval.Percentage = float64(spent.Cents) / float64(b.Amount.Cents) * 100
	}
	return eval
}
