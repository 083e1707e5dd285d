package http

import (
	"time"

	"bilancio/internal/core"
	"bilancio/internal/services"
)

// Wire shapes. Amounts travel as decimal numbers; dates as YYYY-MM-DD.

const wireDate = "2006-01-02"

type (
	userDTO struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}

	authResponse struct {
		Token string  `json:"token"`
		User  userDTO `json:"user"`
	}

	transactionDTO struct {
		ID          string  `json:"id"`
		Amount      float64 `json:"amount"`
		Type        string  `json:"type"`
		Description string  `json:"description"`
		Date        string  `json:"date"`
		CategoryID  *string `json:"categoryId,omitempty"`
	}

	categoryDTO struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Type  string `json:"type"`
		Color string `json:"color,omitempty"`
		Icon  string `json:"icon,omitempty"`
	}

	budgetDTO struct {
		ID         string  `json:"id"`
		Name       string  `json:"name"`
		Amount     float64 `json:"amount"`
		CategoryID *string `json:"categoryId,omitempty"`
		Period     string  `json:"period"`
		StartDate  string  `json:"startDate"`
		EndDate    *string `json:"endDate,omitempty"`

		Spent      float64 `json:"spent"`
		Remaining  float64 `json:"remaining"`
		Percentage float64 `json:"percentage"`
	}

	recurringDTO struct {
		ID          string  `json:"id"`
		Amount      float64 `json:"amount"`
		Type        string  `json:"type"`
		Description string  `json:"description"`
		CategoryID  *string `json:"categoryId,omitempty"`
		Frequency   string  `json:"frequency"`
		DayOfMonth  *int    `json:"dayOfMonth,omitempty"`
		StartDate   string  `json:"startDate"`
		EndDate     *string `json:"endDate,omitempty"`
		IsActive    bool    `json:"isActive"`
	}

	plannedDTO struct {
		ID          string  `json:"id"`
		Amount      float64 `json:"amount"`
		Type        string  `json:"type"`
		Description string  `json:"description"`
		CategoryID  *string `json:"categoryId,omitempty"`
		PlannedDate string  `json:"plannedDate"`
		IsPaid      bool    `json:"isPaid"`
		Notes       string  `json:"notes,omitempty"`
	}

	// periodDTO echoes the aggregation window. Open bounds serialize as
	// null, so the keys are always present.
	periodDTO struct {
		StartDate *string `json:"startDate"`
		EndDate   *string `json:"endDate"`
	}

	summaryDTO struct {
		Income           float64   `json:"income"`
		Expense          float64   `json:"expense"`
		Balance          float64   `json:"balance"`
		TransactionCount int       `json:"transactionCount"`
		Period           periodDTO `json:"period"`
	}

	categoryStatDTO struct {
		CategoryID    *string `json:"categoryId,omitempty"`
		CategoryName  string  `json:"categoryName"`
		CategoryColor string  `json:"categoryColor"`
		Type          string  `json:"type"`
		Total         float64 `json:"total"`
		Count         int     `json:"count"`
	}

	trendPointDTO struct {
		Month   string  `json:"month"`
		Income  float64 `json:"income"`
		Expense float64 `json:"expense"`
		Balance float64 `json:"balance"`
	}

	projectionDTO struct {
		CurrentBalance   float64 `json:"currentBalance"`
		ProjectedIncome  float64 `json:"projectedIncome"`
		ProjectedExpense float64 `json:"projectedExpense"`
		ProjectedBalance float64 `json:"projectedBalance"`
		ProjectionMonths int     `json:"projectionMonths"`
		RecurringCount   int     `json:"recurringCount"`
		PlannedCount     int     `json:"plannedCount"`
	}

	dashboardDTO struct {
		Summary    summaryDTO        `json:"summary"`
		Categories []categoryStatDTO `json:"categories"`
		Recent     []transactionDTO  `json:"recentTransactions"`
		Trend      []trendPointDTO   `json:"monthlyTrend"`
		Projection projectionDTO     `json:"projection"`
	}
)

func fmtOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(wireDate)
	return &s
}

func toUserDTO(u core.User) userDTO {
	return userDTO{ID: u.ID, Email: u.Email, Name: u.Name}
}

func toTransactionDTO(t core.Transaction) transactionDTO {
	return transactionDTO{
		ID:          t.ID,
		Amount:      t.Amount.Float64(),
		Type:        string(t.Type),
		Description: t.Description,
		Date:        t.Date.Format(wireDate),
		CategoryID:  t.CategoryID,
	}
}

func toTransactionDTOs(txs []core.Transaction) []transactionDTO {
	out := make([]transactionDTO, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionDTO(t))
	}
	return out
}

func toCategoryDTO(c core.Category) categoryDTO {
	return categoryDTO{
		ID:    c.ID,
		Name:  c.Name,
		Type:  string(c.Type),
		Color: c.Color,
		Icon:  c.Icon,
	}
}

func toBudgetDTO(s services.BudgetStatus) budgetDTO {
	b := s.Budget
	return budgetDTO{
		ID:         b.ID,
		Name:       b.Name,
		Amount:     b.Amount.Float64(),
		CategoryID: b.CategoryID,
		Period:     string(b.Period),
		StartDate:  b.StartDate.Format(wireDate),
		EndDate:    fmtOptionalDate(b.EndDate),
		Spent:      s.Evaluation.Spent.Float64(),
		Remaining:  s.Evaluation.Remaining.Float64(),
		Percentage: s.Evaluation.Percentage,
	}
}

func toRecurringDTO(r core.RecurringTransaction) recurringDTO {
	return recurringDTO{
		ID:          r.ID,
		Amount:      r.Amount.Float64(),
		Type:        string(r.Type),
		Description: r.Description,
		CategoryID:  r.CategoryID,
		Frequency:   string(r.Frequency),
		DayOfMonth:  r.DayOfMonth,
		StartDate:   r.StartDate.Format(wireDate),
		EndDate:     fmtOptionalDate(r.EndDate),
		IsActive:    r.IsActive,
	}
}

func toPlannedDTO(p core.PlannedTransaction) plannedDTO {
	return plannedDTO{
		ID:          p.ID,
		Amount:      p.Amount.Float64(),
		Type:        string(p.Type),
		Description: p.Description,
		CategoryID:  p.CategoryID,
		PlannedDate: p.PlannedDate.Format(wireDate),
		IsPaid:      p.IsPaid,
		Notes:       p.Notes,
	}
}

func toSummaryDTO(s core.Summary) summaryDTO {
	return summaryDTO{
		Income:           s.Income.Float64(),
		Expense:          s.Expense.Float64(),
		Balance:          s.Balance.Float64(),
		TransactionCount: s.TransactionCount,
		Period: periodDTO{
			StartDate: fmtOptionalDate(s.Period.From),
			EndDate:   fmtOptionalDate(s.Period.To),
		},
	}
}

func toCategoryStatDTOs(stats []core.CategoryStat) []categoryStatDTO {
	out := make([]categoryStatDTO, 0, len(stats))
	for _, s := range stats {
		out = append(out, categoryStatDTO{
			CategoryID:    s.CategoryID,
			CategoryName:  s.CategoryName,
			CategoryColor: s.CategoryColor,
			Type:          string(s.Type),
			Total:         s.Total.Float64(),
			Count:         s.Count,
		})
	}
	return out
}

func toTrendPointDTOs(trend []core.TrendPoint) []trendPointDTO {
	out := make([]trendPointDTO, 0, len(trend))
	for _, p := range trend {
		out = append(out, trendPointDTO{
			Month:   p.Month,
			Income:  p.Income.Float64(),
			Expense: p.Expense.Float64(),
			Balance: p.Balance.Float64(),
		})
	}
	return out
}

func toProjectionDTO(p core.Projection) projectionDTO {
	return projectionDTO{
		CurrentBalance:   p.CurrentBalance.Float64(),
		ProjectedIncome:  p.ProjectedIncome.Float64(),
		ProjectedExpense: p.ProjectedExpense.Float64(),
		ProjectedBalance: p.ProjectedBalance.Float64(),
		ProjectionMonths: p.ProjectionMonths,
		RecurringCount:   p.RecurringCount,
		PlannedCount:     p.PlannedCount,
	}
}
