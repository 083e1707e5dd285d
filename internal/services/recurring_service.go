package services

import (
	"context"
	"fmt"

	"bilancio/internal/core"
	"bilancio/internal/storage"
)

// RecurringStore is the slice of the repository the recurring service needs.
type RecurringStore interface {
	categoryStore
	CreateRecurring(ctx context.Context, r core.RecurringTransaction) (core.RecurringTransaction, error)
	GetRecurring(ctx context.Context, userID, id string) (core.RecurringTransaction, error)
	ListRecurring(ctx context.Context, userID string, f storage.RecurringFilter) ([]core.RecurringTransaction, error)
	UpdateRecurring(ctx context.Context, r core.RecurringTransaction) error
	DeleteRecurring(ctx context.Context, userID, id string) error
}

var _ RecurringStore = (*storage.SQLiteRepository)(nil)

// RecurringService manages recurring templates. Templates never write to the
// ledger themselves; they only feed projections.
type RecurringService struct {
	storage RecurringStore
}

func NewRecurringService(storage RecurringStore) *RecurringService {
	return &RecurringService{storage: storage}
}

func (s *RecurringService) Create(ctx context.Context, userID string, r core.RecurringTransaction) (core.RecurringTransaction, error) {
	r.UserID = userID
	if err := r.Validate(); err != nil {
		return core.RecurringTransaction{}, err
	}
	if err := checkCategoryRef(ctx, s.storage, userID, r.CategoryID, r.Type); err != nil {
		return core.RecurringTransaction{}, err
	}
	saved, err := s.storage.CreateRecurring(ctx, r)
	if err != nil {
		return core.RecurringTransaction{}, fmt.Errorf("save recurring transaction: %w", err)
	}
	return saved, nil
}

func (s *RecurringService) Get(ctx context.Context, userID, id string) (core.RecurringTransaction, error) {
	return s.storage.GetRecurring(ctx, userID, id)
}

func (s *RecurringService) List(ctx context.Context, userID string, activeOnly bool) ([]core.RecurringTransaction, error) {
	return s.storage.ListRecurring(ctx, userID, storage.RecurringFilter{ActiveOnly: activeOnly})
}

func (s *RecurringService) Update(ctx context.Context, userID string, r core.RecurringTransaction) (core.RecurringTransaction, error) {
	r.UserID = userID
	if err := r.Validate(); err != nil {
		return core.RecurringTransaction{}, err
	}
	if err := checkCategoryRef(ctx, s.storage, userID, r.CategoryID, r.Type); err != nil {
		return core.RecurringTransaction{}, err
	}
	if err := s.storage.UpdateRecurring(ctx, r); err != nil {
		return core.RecurringTransaction{}, err
	}
	return r, nil
}

// SetActive pauses or resumes a template without touching anything else.
func (s *RecurringService) SetActive(ctx context.Context, userID, id string, active bool) (core.RecurringTransaction, error) {
	r, err := s.storage.GetRecurring(ctx, userID, id)
	if err != nil {
		return core.RecurringTransaction{}, err
	}
	if r.IsActive == active {
		return r, nil
	}
	r.IsActive = active
	if err := s.storage.UpdateRecurring(ctx, r); err != nil {
		return core.RecurringTransaction{}, err
	}
	return r, nil
}

func (s *RecurringService) Delete(ctx context.Context, userID, id string) error {
	return s.storage.DeleteRecurring(ctx, userID, id)
}
