package amqp

import (
	"encoding/json"
	"time"
)

// Event kinds carried on the ledger queue.
const (
	EventTransactionCreated = "transaction.created"
	EventPlannedPaid        = "planned.paid"
)

// LedgerEventMessage is a lightweight notification that something entered
// the ledger. It carries only identifiers; the worker fetches the full
// transaction from the database.
type LedgerEventMessage struct {
	Kind          string    `json:"kind"`
	TransactionID string    `json:"transaction_id"`
	UserID        string    `json:"user_id"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewLedgerEventMessage creates an event for the given transaction.
func NewLedgerEventMessage(kind, transactionID, userID string) *LedgerEventMessage {
	return &LedgerEventMessage{
		Kind:          kind,
		TransactionID: transactionID,
		UserID:        userID,
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventMessageFromJSON creates a message from JSON bytes
func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
