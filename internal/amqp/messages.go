package amqp

import (
	"encoding/json"
	"time"
)

// Actions a ledger event can describe.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// TransactionEvent is a lightweight notification that a transaction changed.
// Consumers that need the full record fetch it from the database.
type TransactionEvent struct {
	TransactionID int64     `json:"transactionId"`
	UserID        int64     `json:"userId"`
	Action        string    `json:"action"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionEvent(transactionID, userID int64, action string) *TransactionEvent {
	return &TransactionEvent{
		TransactionID: transactionID,
		UserID:        userID,
		Action:        action,
		Timestamp:     time.Now(),
	}
}

func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var ev TransactionEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
