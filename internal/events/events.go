// Package events publishes expense lifecycle notifications so downstream
// consumers (reporting, alerting) can react without polling the store.
package events

import (
	"context"
	"time"

	"github.com/spendlog/spendlog-be/internal/models"
)

const (
	TypeExpenseCreated = "expense.created"
	TypeExpenseUpdated = "expense.updated"
	TypeExpenseDeleted = "expense.deleted"
)

// Event describes a single expense mutation.
type Event struct {
	Type       string    `json:"type"`
	ExpenseID  int64     `json:"expense_id"`
	Amount     float64   `json:"amount,omitempty"`
	Category   string    `json:"category,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewExpenseEvent builds an event for the given mutation type.
func NewExpenseEvent(eventType string, e models.Expense) Event {
	return Event{
		Type:       eventType,
		ExpenseID:  e.ID,
		Amount:     e.Amount,
		Category:   e.Category,
		OccurredAt: time.Now(),
	}
}

// Publisher delivers events to an external broker. Implementations must be
// safe for concurrent use by request handlers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoopPublisher is wired when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }

func (NoopPublisher) Close() error { return nil }
