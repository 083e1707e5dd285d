package services

import (
	"context"
	"fmt"
	"time"

	"bilancio/internal/core"
	"bilancio/internal/storage"
)

// BudgetStore is the slice of the repository the budget service needs.
type BudgetStore interface {
	categoryStore
	CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
	GetBudget(ctx context.Context, userID, id string) (core.Budget, error)
	ListBudgets(ctx context.Context, userID string, f storage.BudgetFilter) ([]core.Budget, error)
	UpdateBudget(ctx context.Context, b core.Budget) error
	DeleteBudget(ctx context.Context, userID, id string) error
	ListTransactions(ctx context.Context, userID string, f storage.TransactionFilter) ([]core.Transaction, error)
}

var _ BudgetStore = (*storage.SQLiteRepository)(nil)

// BudgetStatus pairs a budget with its evaluation at read time. Nothing is
// cached; every read recomputes from the ledger.
type BudgetStatus struct {
	Budget     core.Budget
	Evaluation core.BudgetEvaluation
}

// BudgetService manages spending ceilings and evaluates them against the
// ledger on every read.
type BudgetService struct {
	storage BudgetStore
}

func NewBudgetService(storage BudgetStore) *BudgetService {
	return &BudgetService{storage: storage}
}

// Create validates and saves a budget. A referenced category must be an
// expense category: budgets only watch money going out.
func (s *BudgetService) Create(ctx context.Context, userID string, b core.Budget) (core.Budget, error) {
	b.UserID = userID
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	if err := checkCategoryRef(ctx, s.storage, userID, b.CategoryID, core.Expense); err != nil {
		return core.Budget{}, err
	}
	saved, err := s.storage.CreateBudget(ctx, b)
	if err != nil {
		return core.Budget{}, fmt.Errorf("save budget: %w", err)
	}
	return saved, nil
}

// Get returns one budget with its evaluation.
func (s *BudgetService) Get(ctx context.Context, userID, id string) (BudgetStatus, error) {
	b, err := s.storage.GetBudget(ctx, userID, id)
	if err != nil {
		return BudgetStatus{}, err
	}
	eval, err := s.evaluate(ctx, b)
	if err != nil {
		return BudgetStatus{}, err
	}
	return BudgetStatus{Budget: b, Evaluation: eval}, nil
}

// List returns the user's budgets, each with a fresh evaluation. The ledger
// is read once and shared across evaluations.
func (s *BudgetService) List(ctx context.Context, userID string, activeOnly bool) ([]BudgetStatus, error) {
	budgets, err := s.storage.ListBudgets(ctx, userID, storage.BudgetFilter{
		ActiveOnly: activeOnly,
		Now:        time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	if len(budgets) == 0 {
		return []BudgetStatus{}, nil
	}

	expense := core.Expense
	txs, err := s.storage.ListTransactions(ctx, userID, storage.TransactionFilter{Type: &expense})
	if err != nil {
		return nil, fmt.Errorf("load expenses for evaluation: %w", err)
	}

	statuses := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		statuses = append(statuses, BudgetStatus{
			Budget:     b,
			Evaluation: core.EvaluateBudget(b, txs),
		})
	}
	return statuses, nil
}

func (s *BudgetService) Update(ctx context.Context, userID string, b core.Budget) (core.Budget, error) {
	b.UserID = userID
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	if err := checkCategoryRef(ctx, s.storage, userID, b.CategoryID, core.Expense); err != nil {
		return core.Budget{}, err
	}
	if err := s.storage.UpdateBudget(ctx, b); err != nil {
		return core.Budget{}, err
	}
	return b, nil
}

func (s *BudgetService) Delete(ctx context.Context, userID, id string) error {
	return s.storage.DeleteBudget(ctx, userID, id)
}

func (s *BudgetService) evaluate(ctx context.Context, b core.Budget) (core.BudgetEvaluation, error) {
	expense := core.Expense
	txs, err := s.storage.ListTransactions(ctx, b.UserID, storage.TransactionFilter{
		Type:       &expense,
		CategoryID: b.CategoryID,
		From:       &b.StartDate,
		To:         b.EndDate,
	})
	if err != nil {
		return core.BudgetEvaluation{}, fmt.Errorf("load expenses for evaluation: %w", err)
	}
	return core.EvaluateBudget(b, txs), nil
}
