package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"bilancio/internal/core"
	"bilancio/internal/storage"
)

// Defaults for the dashboard read models.
const (
	DefaultRecentLimit = 10
	DefaultTrendMonths = 6
)

// DashboardStore is the slice of the repository the dashboard service needs.
type DashboardStore interface {
	ListTransactions(ctx context.Context, userID string, f storage.TransactionFilter) ([]core.Transaction, error)
	ListCategories(ctx context.Context, userID string, typ *core.TransactionType) ([]core.Category, error)
	ListRecurring(ctx context.Context, userID string, f storage.RecurringFilter) ([]core.RecurringTransaction, error)
	ListPlanned(ctx context.Context, userID string, f storage.PlannedFilter) ([]core.PlannedTransaction, error)
}

var _ DashboardStore = (*storage.SQLiteRepository)(nil)

// Dashboard is the combined read model behind the home screen.
type Dashboard struct {
	Summary    core.Summary
	Categories []core.CategoryStat
	Recent     []core.Transaction
	Trend      []core.TrendPoint
	Projection core.Projection
}

// DashboardService computes aggregate read models. Everything here is
// derived on demand from the ledger; nothing is cached or stored.
type DashboardService struct {
	storage DashboardStore
}

func NewDashboardService(storage DashboardStore) *DashboardService {
	return &DashboardService{storage: storage}
}

// Summary returns income, expense, and balance over the period. Open bounds
// are allowed on either side.
func (s *DashboardService) Summary(ctx context.Context, userID string, period core.DateRange) (core.Summary, error) {
	txs, err := s.storage.ListTransactions(ctx, userID, storage.TransactionFilter{
		From: period.From,
		To:   period.To,
	})
	if err != nil {
		return core.Summary{}, err
	}
	return core.Summarize(txs, period), nil
}

// CategoryStats returns the per-category breakdown over the period, with a
// synthetic bucket for uncategorized transactions. A non-nil typ restricts
// the breakdown to one side of the ledger.
func (s *DashboardService) CategoryStats(ctx context.Context, userID string, period core.DateRange, typ *core.TransactionType) ([]core.CategoryStat, error) {
	var (
		txs  []core.Transaction
		cats []core.Category
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.storage.ListTransactions(ctx, userID, storage.TransactionFilter{
			Type: typ,
			From: period.From,
			To:   period.To,
		})
		return err
	})
	g.Go(func() error {
		var err error
		cats, err = s.storage.ListCategories(ctx, userID, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := make(map[string]core.Category, len(cats))
	for _, c := range cats {
		byID[c.ID] = c
	}
	return core.CategoryStats(txs, byID), nil
}

// Recent returns the newest transactions, most recent first.
func (s *DashboardService) Recent(ctx context.Context, userID string, limit int) ([]core.Transaction, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return s.storage.ListTransactions(ctx, userID, storage.TransactionFilter{Limit: limit})
}

// Trend returns the monthly income/expense series, oldest first, for
// transactions dated within the last months months of today. Months without
// movements are absent.
func (s *DashboardService) Trend(ctx context.Context, userID string, months int) ([]core.TrendPoint, error) {
	if months <= 0 {
		months = DefaultTrendMonths
	}
	now := time.Now().UTC()
	from := now.AddDate(0, -months, 0)

	txs, err := s.storage.ListTransactions(ctx, userID, storage.TransactionFilter{
		From:      &from,
		Ascending: true,
	})
	if err != nil {
		return nil, err
	}
	return core.MonthlyTrend(txs, from), nil
}

// Projection estimates the balance months from now, from the full history
// plus active recurring templates and unpaid planned transactions inside
// the horizon.
func (s *DashboardService) Projection(ctx context.Context, userID string, months int) (core.Projection, error) {
	if months <= 0 {
		months = core.DefaultProjectionMonths
	}
	now := time.Now().UTC()
	horizon := now.AddDate(0, months, 0)

	var (
		history   []core.Transaction
		recurring []core.RecurringTransaction
		planned   []core.PlannedTransaction
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		history, err = s.storage.ListTransactions(ctx, userID, storage.TransactionFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		recurring, err = s.storage.ListRecurring(ctx, userID, storage.RecurringFilter{
			ActiveOnly:   true,
			NotExpiredAt: &now,
		})
		return err
	})
	g.Go(func() error {
		var err error
		planned, err = s.storage.ListPlanned(ctx, userID, storage.PlannedFilter{
			UnpaidOnly: true,
			From:       &now,
			To:         &horizon,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return core.Projection{}, err
	}

	return core.Project(now, months, history, recurring, planned), nil
}

// Overview assembles the whole dashboard in one shot. The five read models
// are independent, so they load concurrently.
func (s *DashboardService) Overview(ctx context.Context, userID string, months int) (Dashboard, error) {
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	period := core.DateRange{From: &monthStart, To: &now}

	var d Dashboard
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d.Summary, err = s.Summary(ctx, userID, period)
		return err
	})
	g.Go(func() error {
		var err error
		d.Categories, err = s.CategoryStats(ctx, userID, period, nil)
		return err
	})
	g.Go(func() error {
		var err error
		d.Recent, err = s.Recent(ctx, userID, DefaultRecentLimit)
		return err
	})
	g.Go(func() error {
		var err error
		d.Trend, err = s.Trend(ctx, userID, DefaultTrendMonths)
		return err
	})
	g.Go(func() error {
		var err error
		d.Projection, err = s.Projection(ctx, userID, months)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}
