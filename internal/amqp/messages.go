package amqp

import (
	"encoding/json"
	"time"

	"contabilita/internal/core"
)

// TransactionCreatedMessage is published after a transaction is stored.
// It carries enough of the row for the export worker to append a sheet
// line without a database round trip.
type TransactionCreatedMessage struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Amount      string    `json:"amount"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Date        string    `json:"date"`
	Type        string    `json:"type"`
	Scheduled   bool      `json:"scheduled"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewTransactionCreatedMessage builds the export payload for a stored
// transaction. categoryName is resolved by the caller.
func NewTransactionCreatedMessage(t core.Transaction, categoryName string) *TransactionCreatedMessage {
	return &TransactionCreatedMessage{
		ID:          t.ID,
		UserID:      t.UserID,
		Amount:      t.Amount.StringFixed(2),
		Description: t.Description,
		Category:    categoryName,
		Date:        t.Date.Format("2006-01-02"),
		Type:        string(t.Type),
		Scheduled:   t.ScheduledExpenseID != nil,
		Timestamp:   time.Now(),
	}
}

func (m *TransactionCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionCreatedMessageFromJSON(data []byte) (*TransactionCreatedMessage, error) {
	var msg TransactionCreatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ScheduleDueMessage notifies that a scheduled expense is due and is
// waiting for the user to confirm or skip it.
type ScheduleDueMessage struct {
	ScheduleID int64     `json:"schedule_id"`
	UserID     int64     `json:"user_id"`
	Name       string    `json:"name"`
	Amount     string    `json:"amount"`
	DueDate    string    `json:"due_date"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewScheduleDueMessage(se core.ScheduledExpense) *ScheduleDueMessage {
	return &ScheduleDueMessage{
		ScheduleID: se.ID,
		UserID:     se.UserID,
		Name:       se.Name,
		Amount:     se.Amount.StringFixed(2),
		DueDate:    se.NextDueDate.Format("2006-01-02"),
		Timestamp:  time.Now(),
	}
}

func (m *ScheduleDueMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ScheduleDueMessageFromJSON(data []byte) (*ScheduleDueMessage, error) {
	var msg ScheduleDueMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
