package services

import (
	"context"
	"fmt"

	"bilancio/internal/core"
	"bilancio/internal/storage"
)

// CategoryStore is the slice of the repository the category service needs.
type CategoryStore interface {
	CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
	GetCategory(ctx context.Context, userID, id string) (core.Category, error)
	ListCategories(ctx context.Context, userID string, typ *core.TransactionType) ([]core.Category, error)
	UpdateCategory(ctx context.Context, c core.Category) error
	DeleteCategory(ctx context.Context, userID, id string) error
}

var _ CategoryStore = (*storage.SQLiteRepository)(nil)

// CategoryService manages the per-user category taxonomy. Names are unique
// per user and type; the type of a category never changes after creation.
type CategoryService struct {
	storage CategoryStore
}

func NewCategoryService(storage CategoryStore) *CategoryService {
	return &CategoryService{storage: storage}
}

func (s *CategoryService) Create(ctx context.Context, userID string, c core.Category) (core.Category, error) {
	c.UserID = userID
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	saved, err := s.storage.CreateCategory(ctx, c)
	if isUniqueViolation(err) {
		return core.Category{}, core.ErrDuplicateName
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("save category: %w", err)
	}
	return saved, nil
}

func (s *CategoryService) Get(ctx context.Context, userID, id string) (core.Category, error) {
	return s.storage.GetCategory(ctx, userID, id)
}

func (s *CategoryService) List(ctx context.Context, userID string, typ *core.TransactionType) ([]core.Category, error) {
	return s.storage.ListCategories(ctx, userID, typ)
}

// Update changes name, color, and icon. The stored type wins over whatever
// the caller sent; storage never writes the type column on update.
func (s *CategoryService) Update(ctx context.Context, userID string, c core.Category) (core.Category, error) {
	existing, err := s.storage.GetCategory(ctx, userID, c.ID)
	if err != nil {
		return core.Category{}, err
	}
	c.UserID = userID
	c.Type = existing.Type
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	err = s.storage.UpdateCategory(ctx, c)
	if isUniqueViolation(err) {
		return core.Category{}, core.ErrDuplicateName
	}
	if err != nil {
		return core.Category{}, err
	}
	return c, nil
}

// Delete removes the category. Transactions, budgets, and templates that
// referenced it keep existing with the reference cleared; the database
// handles that with ON DELETE SET NULL.
func (s *CategoryService) Delete(ctx context.Context, userID, id string) error {
	return s.storage.DeleteCategory(ctx, userID, id)
}
