// Package events carries change notifications for read-side consumers.
// The ledger core never depends on delivery succeeding.
package events

import (
	"context"
	"time"

	"github.com/tally-dev/tally/internal/model"
)

// Event kinds emitted by the poster.
const (
	KindTransactionPosted = "transaction.posted"
	KindTransactionVoided = "transaction.voided"
)

// Event is one ledger change notification.
type Event struct {
	Kind        string            `json:"kind"`
	Transaction model.Transaction `json:"transaction"`
	OccurredAt  time.Time         `json:"occurredAt"`
}

// Publisher delivers events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher discards all events.
type NopPublisher struct{}

// Publish discards the event.
func (NopPublisher) Publish(ctx context.Context, event Event) error { return nil }
