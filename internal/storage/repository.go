package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"bilancio/internal/core"
)

// SQLiteRepository is the single persistence adapter. Every query takes the
// owning user's id; rows of other users are unreachable by construction.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const timeFormat = time.RFC3339

func fmtTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func fmtTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return fmtTime(*t)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeFormat, s)
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func timePtr(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := parseTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func intPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}

// --- users ---

func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	u.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, password_hash) VALUES (?, ?, ?, ?)`,
		u.ID, strings.ToLower(strings.TrimSpace(u.Email)), u.Name, u.PasswordHash)
	if err != nil {
		return core.User{}, fmt.Errorf("create user: %w", err)
	}
	slog.InfoContext(ctx, "User created", "user_id", u.ID)
	return u, nil
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash FROM users WHERE email = ?`,
		strings.ToLower(strings.TrimSpace(email))).
		Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (r *SQLiteRepository) GetUser(ctx context.Context, id string) (core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// --- transactions ---

const transactionColumns = `id, user_id, amount_cents, type, description, date, category_id`

func scanTransaction(row interface{ Scan(...any) error }) (core.Transaction, error) {
	var (
		t        core.Transaction
		dateStr  string
		category sql.NullString
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Amount.Cents, &t.Type, &t.Description, &dateStr, &category); err != nil {
		return core.Transaction{}, err
	}
	date, err := parseTime(dateStr)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction date: %w", err)
	}
	t.Date = date
	t.CategoryID = strPtr(category)
	return t, nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	t.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, amount_cents, type, description, date, category_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.Amount.Cents, t.Type, t.Description, fmtTime(t.Date), nullable(t.CategoryID))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"transaction_type", t.Type,
		"amount_cents", t.Amount.Cents)
	return t, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID string, f TransactionFilter) ([]core.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = ?`
	args := []any{userID}

	if f.Type != nil {
		query += ` AND type = ?`
		args = append(args, *f.Type)
	}
	if f.CategoryID != nil {
		query += ` AND category_id = ?`
		args = append(args, *f.CategoryID)
	}
	if f.From != nil {
		query += ` AND date >= ?`
		args = append(args, fmtTime(*f.From))
	}
	if f.To != nil {
		query += ` AND date <= ?`
		args = append(args, fmtTime(*f.To))
	}
	if f.Ascending {
		query += ` ORDER BY date ASC`
	} else {
		query += ` ORDER BY date DESC`
	}
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
		if f.Offset > 0 {
			query += ` OFFSET ?`
			args = append(args, f.Offset)
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET amount_cents = ?, type = ?, description = ?, date = ?, category_id = ?
		 WHERE id = ? AND user_id = ?`,
		t.Amount.Cents, t.Type, t.Description, fmtTime(t.Date), nullable(t.CategoryID), t.ID, t.UserID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res)
}

// --- categories ---

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	c.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, user_id, name, type, color, icon) VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Name, c.Type, c.Color, c.Icon)
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, userID, id string) (core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, type, color, icon FROM categories WHERE id = ? AND user_id = ?`,
		id, userID).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &c.Color, &c.Icon)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context, userID string, typ *core.TransactionType) ([]core.Category, error) {
	query := `SELECT id, user_id, name, type, color, icon FROM categories WHERE user_id = ?`
	args := []any{userID}
	if typ != nil {
		query += ` AND type = ?`
		args = append(args, *typ)
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &c.Color, &c.Icon); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) error {
	// Type is deliberately absent from the SET list: it is immutable
	// after creation.
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, color = ?, icon = ? WHERE id = ? AND user_id = ?`,
		c.Name, c.Color, c.Icon, c.ID, c.UserID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireRow(res)
}

// --- budgets ---

const budgetColumns = `id, user_id, name, amount_cents, category_id, period, start_date, end_date`

func scanBudget(row interface{ Scan(...any) error }) (core.Budget, error) {
	var (
		b        core.Budget
		category sql.NullString
		startStr string
		endStr   sql.NullString
	)
	if err := row.Scan(&b.ID, &b.UserID, &b.Name, &b.Amount.Cents, &category, &b.Period, &startStr, &endStr); err != nil {
		return core.Budget{}, err
	}
	start, err := parseTime(startStr)
	if err != nil {
		return core.Budget{}, fmt.Errorf("parse budget start date: %w", err)
	}
	b.StartDate = start
	b.CategoryID = strPtr(category)
	if b.EndDate, err = timePtr(endStr); err != nil {
		return core.Budget{}, fmt.Errorf("parse budget end date: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	b.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (id, user_id, name, amount_cents, category_id, period, start_date, end_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.UserID, b.Name, b.Amount.Cents, nullable(b.CategoryID), b.Period, fmtTime(b.StartDate), fmtTimePtr(b.EndDate))
	if err != nil {
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, userID, id string) (core.Budget, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, core.ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID string, f BudgetFilter) ([]core.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE user_id = ?`
	args := []any{userID}
	if f.ActiveOnly {
		now := fmtTime(f.Now)
		query += ` AND start_date <= ? AND (end_date IS NULL OR end_date >= ?)`
		args = append(args, now, now)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE budgets SET name = ?, amount_cents = ?, category_id = ?, period = ?, start_date = ?, end_date = ?
		 WHERE id = ? AND user_id = ?`,
		b.Name, b.Amount.Cents, nullable(b.CategoryID), b.Period, fmtTime(b.StartDate), fmtTimePtr(b.EndDate), b.ID, b.UserID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return requireRow(res)
}

// --- recurring transactions ---

const recurringColumns = `id, user_id, amount_cents, type, description, category_id, frequency, day_of_month, start_date, end_date, is_active`

func scanRecurring(row interface{ Scan(...any) error }) (core.RecurringTransaction, error) {
	var (
		rec      core.RecurringTransaction
		category sql.NullString
		dom      sql.NullInt64
		startStr string
		endStr   sql.NullString
	)
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.Amount.Cents, &rec.Type, &rec.Description,
		&category, &rec.Frequency, &dom, &startStr, &endStr, &rec.IsActive); err != nil {
		return core.RecurringTransaction{}, err
	}
	start, err := parseTime(startStr)
	if err != nil {
		return core.RecurringTransaction{}, fmt.Errorf("parse recurring start date: %w", err)
	}
	rec.StartDate = start
	rec.CategoryID = strPtr(category)
	rec.DayOfMonth = intPtr(dom)
	if rec.EndDate, err = timePtr(endStr); err != nil {
		return core.RecurringTransaction{}, fmt.Errorf("parse recurring end date: %w", err)
	}
	return rec, nil
}

func (r *SQLiteRepository) CreateRecurring(ctx context.Context, rec core.RecurringTransaction) (core.RecurringTransaction, error) {
	rec.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO recurring_transactions (id, user_id, amount_cents, type, description, category_id, frequency, day_of_month, start_date, end_date, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.Amount.Cents, rec.Type, rec.Description, nullable(rec.CategoryID),
		rec.Frequency, nullableInt(rec.DayOfMonth), fmtTime(rec.StartDate), fmtTimePtr(rec.EndDate), rec.IsActive)
	if err != nil {
		return core.RecurringTransaction{}, fmt.Errorf("create recurring transaction: %w", err)
	}
	return rec, nil
}

func (r *SQLiteRepository) GetRecurring(ctx context.Context, userID, id string) (core.RecurringTransaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+recurringColumns+` FROM recurring_transactions WHERE id = ? AND user_id = ?`, id, userID)
	rec, err := scanRecurring(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.RecurringTransaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.RecurringTransaction{}, fmt.Errorf("get recurring transaction: %w", err)
	}
	return rec, nil
}

func (r *SQLiteRepository) ListRecurring(ctx context.Context, userID string, f RecurringFilter) ([]core.RecurringTransaction, error) {
	query := `SELECT ` + recurringColumns + ` FROM recurring_transactions WHERE user_id = ?`
	args := []any{userID}
	if f.ActiveOnly {
		query += ` AND is_active = 1`
	}
	if f.NotExpiredAt != nil {
		query += ` AND (end_date IS NULL OR end_date >= ?)`
		args = append(args, fmtTime(*f.NotExpiredAt))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recurring transactions: %w", err)
	}
	defer rows.Close()

	var recs []core.RecurringTransaction
	for rows.Next() {
		rec, err := scanRecurring(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recurring transaction: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (r *SQLiteRepository) UpdateRecurring(ctx context.Context, rec core.RecurringTransaction) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE recurring_transactions SET amount_cents = ?, description = ?, category_id = ?, frequency = ?, day_of_month = ?, start_date = ?, end_date = ?, is_active = ?
		 WHERE id = ? AND user_id = ?`,
		rec.Amount.Cents, rec.Description, nullable(rec.CategoryID), rec.Frequency, nullableInt(rec.DayOfMonth),
		fmtTime(rec.StartDate), fmtTimePtr(rec.EndDate), rec.IsActive, rec.ID, rec.UserID)
	if err != nil {
		return fmt.Errorf("update recurring transaction: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteRecurring(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM recurring_transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete recurring transaction: %w", err)
	}
	return requireRow(res)
}

// --- planned transactions ---

const plannedColumns = `id, user_id, amount_cents, type, description, category_id, planned_date, is_paid, notes`

func scanPlanned(row interface{ Scan(...any) error }) (core.PlannedTransaction, error) {
	var (
		p        core.PlannedTransaction
		category sql.NullString
		dateStr  string
	)
	if err := row.Scan(&p.ID, &p.UserID, &p.Amount.Cents, &p.Type, &p.Description,
		&category, &dateStr, &p.IsPaid, &p.Notes); err != nil {
		return core.PlannedTransaction{}, err
	}
	date, err := parseTime(dateStr)
	if err != nil {
		return core.PlannedTransaction{}, fmt.Errorf("parse planned date: %w", err)
	}
	p.PlannedDate = date
	p.CategoryID = strPtr(category)
	return p, nil
}

func (r *SQLiteRepository) CreatePlanned(ctx context.Context, p core.PlannedTransaction) (core.PlannedTransaction, error) {
	p.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO planned_transactions (id, user_id, amount_cents, type, description, category_id, planned_date, is_paid, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.Amount.Cents, p.Type, p.Description, nullable(p.CategoryID),
		fmtTime(p.PlannedDate), p.IsPaid, p.Notes)
	if err != nil {
		return core.PlannedTransaction{}, fmt.Errorf("create planned transaction: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) GetPlanned(ctx context.Context, userID, id string) (core.PlannedTransaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+plannedColumns+` FROM planned_transactions WHERE id = ? AND user_id = ?`, id, userID)
	p, err := scanPlanned(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.PlannedTransaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.PlannedTransaction{}, fmt.Errorf("get planned transaction: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) ListPlanned(ctx context.Context, userID string, f PlannedFilter) ([]core.PlannedTransaction, error) {
	query := `SELECT ` + plannedColumns + ` FROM planned_transactions WHERE user_id = ?`
	args := []any{userID}
	if f.UnpaidOnly {
		query += ` AND is_paid = 0`
	}
	if f.From != nil {
		query += ` AND planned_date >= ?`
		args = append(args, fmtTime(*f.From))
	}
	if f.To != nil {
		query += ` AND planned_date <= ?`
		args = append(args, fmtTime(*f.To))
	}
	query += ` ORDER BY planned_date ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list planned transactions: %w", err)
	}
	defer rows.Close()

	var planned []core.PlannedTransaction
	for rows.Next() {
		p, err := scanPlanned(rows)
		if err != nil {
			return nil, fmt.Errorf("scan planned transaction: %w", err)
		}
		planned = append(planned, p)
	}
	return planned, rows.Err()
}

func (r *SQLiteRepository) UpdatePlanned(ctx context.Context, p core.PlannedTransaction) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE planned_transactions SET amount_cents = ?, description = ?, category_id = ?, planned_date = ?, is_paid = ?, notes = ?
		 WHERE id = ? AND user_id = ?`,
		p.Amount.Cents, p.Description, nullable(p.CategoryID), fmtTime(p.PlannedDate), p.IsPaid, p.Notes, p.ID, p.UserID)
	if err != nil {
		return fmt.Errorf("update planned transaction: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeletePlanned(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM planned_transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete planned transaction: %w", err)
	}
	return requireRow(res)
}

// MarkPlannedPaid realizes a planned transaction: it inserts the Transaction
// dated now and flips is_paid, both inside one database transaction so a
// crash cannot leave one side done without the other. Paying an
// already-paid item fails with core.ErrAlreadyPaid.
func (r *SQLiteRepository) MarkPlannedPaid(ctx context.Context, userID, id string, now time.Time) (core.Transaction, core.PlannedTransaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Transaction{}, core.PlannedTransaction{}, fmt.Errorf("begin mark paid: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+plannedColumns+` FROM planned_transactions WHERE id = ? AND user_id = ?`, id, userID)
	p, err := scanPlanned(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.PlannedTransaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, core.PlannedTransaction{}, fmt.Errorf("get planned transaction: %w", err)
	}
	if p.IsPaid {
		return core.Transaction{}, core.PlannedTransaction{}, core.ErrAlreadyPaid
	}

	realized := core.Transaction{
		ID:          uuid.NewString(),
		Amount:      p.Amount,
		Type:        p.Type,
		Description: p.Description,
		Date:        now,
		CategoryID:  p.CategoryID,
		UserID:      userID,
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, amount_cents, type, description, date, category_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		realized.ID, realized.UserID, realized.Amount.Cents, realized.Type, realized.Description,
		fmtTime(realized.Date), nullable(realized.CategoryID))
	if err != nil {
		return core.Transaction{}, core.PlannedTransaction{}, fmt.Errorf("insert realized transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE planned_transactions SET is_paid = 1 WHERE id = ? AND user_id = ?`, id, userID); err != nil {
		return core.Transaction{}, core.PlannedTransaction{}, fmt.Errorf("mark planned paid: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return core.Transaction{}, core.PlannedTransaction{}, fmt.Errorf("commit mark paid: %w", err)
	}

	p.IsPaid = true
	slog.InfoContext(ctx, "Planned transaction realized",
		"planned_id", p.ID,
		"transaction_id", realized.ID,
		"amount_cents", realized.Amount.Cents)
	return realized, p, nil
}

// --- export tracking ---

// ListUnexportedTransactions returns transactions not yet written to the
// backup sheet, oldest first, across all users. The export worker drains
// these in batches when it suspects missed events.
func (r *SQLiteRepository) ListUnexportedTransactions(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE exported_at IS NULL ORDER BY date ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list unexported transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func (r *SQLiteRepository) MarkTransactionExported(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET exported_at = ? WHERE id = ?`, fmtTime(at), id)
	if err != nil {
		return fmt.Errorf("mark transaction exported: %w", err)
	}
	return requireRow(res)
}

// --- helpers ---

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableInt(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}
