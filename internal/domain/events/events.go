// Package events defines the domain events the engine emits for the external
// notifier. Emission is best-effort, at-least-once; a failed publish never
// fails the underlying transaction.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type identifies a domain event.
type Type string

const (
	TransferCompleted Type = "TransferCompleted"
	EscrowCreated     Type = "EscrowCreated"
	EscrowReleased    Type = "EscrowReleased"
	EscrowDisputed    Type = "EscrowDisputed"
	RewardMinted      Type = "RewardMinted"
)

// Event is a notification about a state-changing engine operation.
// Amount is a decimal string, matching the wire format everywhere else.
type Event struct {
	ID            uuid.UUID  `json:"id"`
	Type          Type       `json:"type"`
	TransactionID uuid.UUID  `json:"transactionId"`
	EscrowID      *uuid.UUID `json:"escrowId,omitempty"`
	WalletID      uuid.UUID  `json:"walletId"`
	Amount        string     `json:"amount"`
	OccurredAt    time.Time  `json:"occurredAt"`
	Metadata      string     `json:"metadata,omitempty"`
}

// Publisher delivers events to the external notifier.
type Publisher interface {
	Publish(ctx context.Context, event *Event)
}

// NopPublisher discards events. Used when no notifier is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *Event) {}
