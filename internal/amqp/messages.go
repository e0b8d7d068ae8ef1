package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

// EventTransactionCreated is the routing key and type of TransactionEvent.
const EventTransactionCreated = "transaction.created"

// TransactionEvent announces a stored transaction. It carries enough data
// for consumers to act without reading the transaction back.
type TransactionEvent struct {
	EventID       string    `json:"event_id"`
	Type          string    `json:"type"`
	TransactionID int64     `json:"transaction_id"`
	UserID        int64     `json:"user_id"`
	Kind          string    `json:"kind"`
	Category      string    `json:"category"`
	Amount        string    `json:"amount"`
	OccurredOn    string    `json:"occurred_on"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionEvent(t core.Transaction) *TransactionEvent {
	return &TransactionEvent{
		EventID:       uuid.NewString(),
		Type:          EventTransactionCreated,
		TransactionID: t.ID,
		UserID:        t.UserID,
		Kind:          string(t.Kind),
		Category:      t.Category,
		Amount:        t.Amount.StringFixed(2),
		OccurredOn:    t.OccurredOn.String(),
		Timestamp:     time.Now().UTC(),
	}
}

// IsExpense reports whether the event concerns an expense transaction.
func (e *TransactionEvent) IsExpense() bool {
	return e.Kind == string(core.Expense)
}

func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var e TransactionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
