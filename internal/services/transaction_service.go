package services

import (
	"context"
	"fmt"
	"time"

	"bilancio/internal/amqp"
	"bilancio/internal/core"
	"bilancio/internal/storage"
)

// TransactionStore is the slice of the repository the transaction service
// needs.
type TransactionStore interface {
	categoryStore
	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error)
	ListTransactions(ctx context.Context, userID string, f storage.TransactionFilter) ([]core.Transaction, error)
	UpdateTransaction(ctx context.Context, t core.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id string) error
}

var _ TransactionStore = (*storage.SQLiteRepository)(nil)

// TransactionService orchestrates ledger writes across SQLite and AMQP.
type TransactionService struct {
	storage    TransactionStore
	amqpClient *amqp.Client
}

func NewTransactionService(storage TransactionStore, amqpClient *amqp.Client) *TransactionService {
	return &TransactionService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// Create validates and saves a transaction, then publishes a ledger event
// for the export worker. The event is best effort; the save is not.
// A missing date defaults to the creation time.
func (s *TransactionService) Create(ctx context.Context, userID string, t core.Transaction) (core.Transaction, error) {
	t.UserID = userID
	if t.Date.IsZero() {
		t.Date = time.Now().UTC()
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := checkCategoryRef(ctx, s.storage, userID, t.CategoryID, t.Type); err != nil {
		return core.Transaction{}, err
	}

	saved, err := s.storage.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	publishLedgerEvent(ctx, s.amqpClient, amqp.EventTransactionCreated, saved.ID, userID)
	return saved, nil
}

func (s *TransactionService) Get(ctx context.Context, userID, id string) (core.Transaction, error) {
	return s.storage.GetTransaction(ctx, userID, id)
}

func (s *TransactionService) List(ctx context.Context, userID string, f storage.TransactionFilter) ([]core.Transaction, error) {
	return s.storage.ListTransactions(ctx, userID, f)
}

// Update replaces a transaction. A missing date keeps the stored one.
func (s *TransactionService) Update(ctx context.Context, userID string, t core.Transaction) (core.Transaction, error) {
	t.UserID = userID
	if t.Date.IsZero() {
		existing, err := s.storage.GetTransaction(ctx, userID, t.ID)
		if err != nil {
			return core.Transaction{}, err
		}
		t.Date = existing.Date
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := checkCategoryRef(ctx, s.storage, userID, t.CategoryID, t.Type); err != nil {
		return core.Transaction{}, err
	}
	if err := s.storage.UpdateTransaction(ctx, t); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	return s.storage.DeleteTransaction(ctx, userID, id)
}
