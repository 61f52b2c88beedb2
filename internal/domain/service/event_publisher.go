package service

import (
	"context"
	"time"
)

// Account lifecycle event types.
const (
	EventAccountRegistered  = "account.registered"
	EventAccountSuspended   = "account.suspended"
	EventAccountDeactivated = "account.deactivated"
)

// AccountEvent is published when an account is created or its lifecycle state
// changes, so downstream systems (mail, analytics) can react asynchronously.
type AccountEvent struct {
	RequestID  string    `json:"request_id,omitempty"` // For distributed tracing
	Type       string    `json:"type"`
	AccountID  string    `json:"account_id"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing account events to a
// message broker. Publishing is best effort: callers log failures and move on.
type EventPublisher interface {
	// PublishAccountEvent publishes an account lifecycle event.
	PublishAccountEvent(ctx context.Context, event *AccountEvent) error

	// Close releases any resources held by the publisher.
	Close() error
}
