package events

import (
	"context"
	"errors"
	"time"
)

type Type string

const (
	TransactionCreated   Type = "transaction.created"
	TransactionConfirmed Type = "transaction.confirmed"
)

type Event struct {
	Type          Type      `json:"type"`
	TransactionID string    `json:"transactionID"`
	UserID        string    `json:"userID"`
	StoreID       string    `json:"storeID"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// Publisher delivers transaction events after the database commit.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Multi delivers to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
