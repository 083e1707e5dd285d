package services

import (
	"context"
	"fmt"
	"time"

	"bilancio/internal/amqp"
	"bilancio/internal/core"
	"bilancio/internal/storage"
)

// PlannedStore is the slice of the repository the planned service needs.
type PlannedStore interface {
	categoryStore
	CreatePlanned(ctx context.Context, p core.PlannedTransaction) (core.PlannedTransaction, error)
	GetPlanned(ctx context.Context, userID, id string) (core.PlannedTransaction, error)
	ListPlanned(ctx context.Context, userID string, f storage.PlannedFilter) ([]core.PlannedTransaction, error)
	UpdatePlanned(ctx context.Context, p core.PlannedTransaction) error
	DeletePlanned(ctx context.Context, userID, id string) error
	MarkPlannedPaid(ctx context.Context, userID, id string, now time.Time) (core.Transaction, core.PlannedTransaction, error)
}

var _ PlannedStore = (*storage.SQLiteRepository)(nil)

// PlannedService manages expected one-off movements and their realization
// into the ledger.
type PlannedService struct {
	storage    PlannedStore
	amqpClient *amqp.Client
}

func NewPlannedService(storage PlannedStore, amqpClient *amqp.Client) *PlannedService {
	return &PlannedService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

func (s *PlannedService) Create(ctx context.Context, userID string, p core.PlannedTransaction) (core.PlannedTransaction, error) {
	p.UserID = userID
	p.IsPaid = false
	if err := p.Validate(); err != nil {
		return core.PlannedTransaction{}, err
	}
	if err := checkCategoryRef(ctx, s.storage, userID, p.CategoryID, p.Type); err != nil {
		return core.PlannedTransaction{}, err
	}
	saved, err := s.storage.CreatePlanned(ctx, p)
	if err != nil {
		return core.PlannedTransaction{}, fmt.Errorf("save planned transaction: %w", err)
	}
	return saved, nil
}

func (s *PlannedService) Get(ctx context.Context, userID, id string) (core.PlannedTransaction, error) {
	return s.storage.GetPlanned(ctx, userID, id)
}

func (s *PlannedService) List(ctx context.Context, userID string, f storage.PlannedFilter) ([]core.PlannedTransaction, error) {
	return s.storage.ListPlanned(ctx, userID, f)
}

// Update edits an unpaid planned transaction. The paid flag only moves
// through MarkAsPaid.
func (s *PlannedService) Update(ctx context.Context, userID string, p core.PlannedTransaction) (core.PlannedTransaction, error) {
	existing, err := s.storage.GetPlanned(ctx, userID, p.ID)
	if err != nil {
		return core.PlannedTransaction{}, err
	}
	if existing.IsPaid {
		return core.PlannedTransaction{}, core.ErrAlreadyPaid
	}
	p.UserID = userID
	p.IsPaid = false
	if err := p.Validate(); err != nil {
		return core.PlannedTransaction{}, err
	}
	if err := checkCategoryRef(ctx, s.storage, userID, p.CategoryID, p.Type); err != nil {
		return core.PlannedTransaction{}, err
	}
	if err := s.storage.UpdatePlanned(ctx, p); err != nil {
		return core.PlannedTransaction{}, err
	}
	return p, nil
}

// MarkAsPaid realizes the planned transaction into the ledger, dated now,
// and publishes a ledger event for the export worker. Paying twice fails
// with core.ErrAlreadyPaid.
func (s *PlannedService) MarkAsPaid(ctx context.Context, userID, id string) (core.Transaction, core.PlannedTransaction, error) {
	realized, planned, err := s.storage.MarkPlannedPaid(ctx, userID, id, time.Now().UTC())
	if err != nil {
		return core.Transaction{}, core.PlannedTransaction{}, err
	}

	publishLedgerEvent(ctx, s.amqpClient, amqp.EventPlannedPaid, realized.ID, userID)
	return realized, planned, nil
}

func (s *PlannedService) Delete(ctx context.Context, userID, id string) error {
	return s.storage.DeletePlanned(ctx, userID, id)
}
