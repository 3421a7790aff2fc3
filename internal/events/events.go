package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ishantswami13-crypto/fintrack-backend/internal/domain"
	"github.com/ishantswami13-crypto/fintrack-backend/internal/money"
)

const (
	TransactionCreated = "transaction.created"
	TransactionDeleted = "transaction.deleted"
)

// TransactionEvent is the message body published for transaction changes.
type TransactionEvent struct {
	Kind          string                 `json:"kind"`
	TransactionID uuid.UUID              `json:"transaction_id"`
	UserID        uuid.UUID              `json:"user_id"`
	CategoryID    *int64                 `json:"category_id,omitempty"`
	Amount        decimal.Decimal        `json:"amount"`
	Type          domain.TransactionType `json:"type"`
	Timestamp     time.Time              `json:"timestamp"`
	OccurredAt    time.Time              `json:"occurred_at"`
}

func NewTransactionEvent(kind string, tx *domain.Transaction) TransactionEvent {
	return TransactionEvent{
		Kind:          kind,
		TransactionID: tx.ID,
		UserID:        tx.UserID,
		CategoryID:    tx.CategoryID,
		Amount:        tx.Amount,
		Type:          tx.Type,
		Timestamp:     tx.Timestamp,
		OccurredAt:    time.Now().UTC(),
	}
}

func (e TransactionEvent) ToJSON() ([]byte, error) {
	type wire TransactionEvent
	return json.Marshal(struct {
		wire
		Amount json.Number `json:"amount"`
	}{wire(e), money.Number(e.Amount)})
}

// Publisher delivers events to subscribers outside the process.
type Publisher interface {
	Publish(ctx context.Context, e TransactionEvent) error
	Close() error
}

// Noop drops every event. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, TransactionEvent) error { return nil }
func (Noop) Close() error                                   { return nil }
