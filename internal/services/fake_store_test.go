package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"bilancio/internal/core"
	"bilancio/internal/storage"
)

// fakeStore is an in-memory stand-in for the SQLite repository. It mimics
// the repository's filter semantics closely enough for service tests.
type fakeStore struct {
	mu           sync.Mutex
	seq          int
	users        map[string]core.User
	transactions map[string]core.Transaction
	categories   map[string]core.Category
	budgets      map[string]core.Budget
	recurring    map[string]core.RecurringTransaction
	planned      map[string]core.PlannedTransaction
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        make(map[string]core.User),
		transactions: make(map[string]core.Transaction),
		categories:   make(map[string]core.Category),
		budgets:      make(map[string]core.Budget),
		recurring:    make(map[string]core.RecurringTransaction),
		planned:      make(map[string]core.PlannedTransaction),
	}
}

func (f *fakeStore) nextID() string {
	f.seq++
	return fmt.Sprintf("id-%d", f.seq)
}

// errUnique mirrors the driver's constraint violation text so the services
// map it the same way they map the real thing.
var errUnique = errors.New("constraint failed: UNIQUE constraint failed")

// --- users ---

func (f *fakeStore) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return core.User{}, errUnique
		}
	}
	u.ID = f.nextID()
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeStore) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return core.User{}, core.ErrNotFound
}

func (f *fakeStore) GetUser(ctx context.Context, id string) (core.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return core.User{}, core.ErrNotFound
	}
	return u, nil
}

// --- transactions ---

func (f *fakeStore) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t.ID = f.nextID()
	f.transactions[t.ID] = t
	return t, nil
}

func (f *fakeStore) GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.transactions[id]
	if !ok || t.UserID != userID {
		return core.Transaction{}, core.ErrNotFound
	}
	return t, nil
}

func (f *fakeStore) ListTransactions(ctx context.Context, userID string, filter storage.TransactionFilter) ([]core.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []core.Transaction
	for _, t := range f.transactions {
		if t.UserID != userID {
			continue
		}
		if filter.Type != nil && t.Type != *filter.Type {
			continue
		}
		if filter.CategoryID != nil {
			if t.CategoryID == nil || *t.CategoryID != *filter.CategoryID {
				continue
			}
		}
		if filter.From != nil && t.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && t.Date.After(*filter.To) {
			continue
		}
		out = append(out, t)
	}

	sort.Slice(out, func(i, j int) bool {
		if filter.Ascending {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Date.After(out[j].Date)
	})

	if filter.Limit > 0 {
		start := filter.Offset
		if start > len(out) {
			start = len(out)
		}
		end := start + filter.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}
	return out, nil
}

func (f *fakeStore) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.transactions[t.ID]
	if !ok || existing.UserID != t.UserID {
		return core.ErrNotFound
	}
	f.transactions[t.ID] = t
	return nil
}

func (f *fakeStore) DeleteTransaction(ctx context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.transactions[id]
	if !ok || t.UserID != userID {
		return core.ErrNotFound
	}
	delete(f.transactions, id)
	return nil
}

// --- categories ---

func (f *fakeStore) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.categories {
		if existing.UserID == c.UserID && existing.Type == c.Type && existing.Name == c.Name {
			return core.Category{}, errUnique
		}
	}
	c.ID = f.nextID()
	f.categories[c.ID] = c
	return c, nil
}

func (f *fakeStore) GetCategory(ctx context.Context, userID, id string) (core.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.categories[id]
	if !ok || c.UserID != userID {
		return core.Category{}, core.ErrNotFound
	}
	return c, nil
}

func (f *fakeStore) ListCategories(ctx context.Context, userID string, typ *core.TransactionType) ([]core.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []core.Category
	for _, c := range f.categories {
		if c.UserID != userID {
			continue
		}
		if typ != nil && c.Type != *typ {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) UpdateCategory(ctx context.Context, c core.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.categories[c.ID]
	if !ok || existing.UserID != c.UserID {
		return core.ErrNotFound
	}
	// Type is immutable on update, like the real schema.
	c.Type = existing.Type
	f.categories[c.ID] = c
	return nil
}

func (f *fakeStore) DeleteCategory(ctx context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.categories[id]
	if !ok || c.UserID != userID {
		return core.ErrNotFound
	}
	delete(f.categories, id)
	// ON DELETE SET NULL
	for tid, t := range f.transactions {
		if t.CategoryID != nil && *t.CategoryID == id {
			t.CategoryID = nil
			f.transactions[tid] = t
		}
	}
	return nil
}

// --- budgets ---

func (f *fakeStore) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b.ID = f.nextID()
	f.budgets[b.ID] = b
	return b, nil
}

func (f *fakeStore) GetBudget(ctx context.Context, userID, id string) (core.Budget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.budgets[id]
	if !ok || b.UserID != userID {
		return core.Budget{}, core.ErrNotFound
	}
	return b, nil
}

func (f *fakeStore) ListBudgets(ctx context.Context, userID string, filter storage.BudgetFilter) ([]core.Budget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []core.Budget
	for _, b := range f.budgets {
		if b.UserID != userID {
			continue
		}
		if filter.ActiveOnly {
			if b.StartDate.After(filter.Now) {
				continue
			}
			if b.EndDate != nil && b.EndDate.Before(filter.Now) {
				continue
			}
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) UpdateBudget(ctx context.Context, b core.Budget) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.budgets[b.ID]
	if !ok || existing.UserID != b.UserID {
		return core.ErrNotFound
	}
	f.budgets[b.ID] = b
	return nil
}

func (f *fakeStore) DeleteBudget(ctx context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.budgets[id]
	if !ok || b.UserID != userID {
		return core.ErrNotFound
	}
	delete(f.budgets, id)
	return nil
}

// --- recurring ---

func (f *fakeStore) CreateRecurring(ctx context.Context, r core.RecurringTransaction) (core.RecurringTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = f.nextID()
	f.recurring[r.ID] = r
	return r, nil
}

func (f *fakeStore) GetRecurring(ctx context.Context, userID, id string) (core.RecurringTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.recurring[id]
	if !ok || r.UserID != userID {
		return core.RecurringTransaction{}, core.ErrNotFound
	}
	return r, nil
}

func (f *fakeStore) ListRecurring(ctx context.Context, userID string, filter storage.RecurringFilter) ([]core.RecurringTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []core.RecurringTransaction
	for _, r := range f.recurring {
		if r.UserID != userID {
			continue
		}
		if filter.ActiveOnly && !r.IsActive {
			continue
		}
		if filter.NotExpiredAt != nil && r.EndDate != nil && r.EndDate.Before(*filter.NotExpiredAt) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) UpdateRecurring(ctx context.Context, r core.RecurringTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.recurring[r.ID]
	if !ok || existing.UserID != r.UserID {
		return core.ErrNotFound
	}
	f.recurring[r.ID] = r
	return nil
}

func (f *fakeStore) DeleteRecurring(ctx context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.recurring[id]
	if !ok || r.UserID != userID {
		return core.ErrNotFound
	}
	delete(f.recurring, id)
	return nil
}

// --- planned ---

func (f *fakeStore) CreatePlanned(ctx context.Context, p core.PlannedTransaction) (core.PlannedTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = f.nextID()
	f.planned[p.ID] = p
	return p, nil
}

func (f *fakeStore) GetPlanned(ctx context.Context, userID, id string) (core.PlannedTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.planned[id]
	if !ok || p.UserID != userID {
		return core.PlannedTransaction{}, core.ErrNotFound
	}
	return p, nil
}

func (f *fakeStore) ListPlanned(ctx context.Context, userID string, filter storage.PlannedFilter) ([]core.PlannedTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []core.PlannedTransaction
	for _, p := range f.planned {
		if p.UserID != userID {
			continue
		}
		if filter.UnpaidOnly && p.IsPaid {
			continue
		}
		if filter.From != nil && p.PlannedDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && p.PlannedDate.After(*filter.To) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlannedDate.Before(out[j].PlannedDate) })
	return out, nil
}

func (f *fakeStore) UpdatePlanned(ctx context.Context, p core.PlannedTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.planned[p.ID]
	if !ok || existing.UserID != p.UserID {
		return core.ErrNotFound
	}
	f.planned[p.ID] = p
	return nil
}

func (f *fakeStore) DeletePlanned(ctx context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.planned[id]
	if !ok || p.UserID != userID {
		return core.ErrNotFound
	}
	delete(f.planned, id)
	return nil
}

func (f *fakeStore) MarkPlannedPaid(ctx context.Context, userID, id string, now time.Time) (core.Transaction, core.PlannedTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.planned[id]
	if !ok || p.UserID != userID {
		return core.Transaction{}, core.PlannedTransaction{}, core.ErrNotFound
	}
	if p.IsPaid {
		return core.Transaction{}, core.PlannedTransaction{}, core.ErrAlreadyPaid
	}
	t := core.Transaction{
		ID:          f.nextID(),
		Amount:      p.Amount,
		Type:        p.Type,
		Description: p.Description,
		Date:        now,
		CategoryID:  p.CategoryID,
		UserID:      userID,
	}
	f.transactions[t.ID] = t
	p.IsPaid = true
	f.planned[id] = p
	return t, p, nil
}

// Interface conformance for every service the fake backs.
var (
	_ UserStore        = (*fakeStore)(nil)
	_ TransactionStore = (*fakeStore)(nil)
	_ CategoryStore    = (*fakeStore)(nil)
	_ BudgetStore      = (*fakeStore)(nil)
	_ RecurringStore   = (*fakeStore)(nil)
	_ PlannedStore     = (*fakeStore)(nil)
	_ DashboardStore   = (*fakeStore)(nil)
)
