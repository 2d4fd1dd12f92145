package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// EscrowStatus is the state of a held-funds agreement.
type EscrowStatus string

const (
	EscrowStatusPending   EscrowStatus = "pending"
	EscrowStatusCompleted EscrowStatus = "completed"
	EscrowStatusCancelled EscrowStatus = "cancelled"
	EscrowStatusDisputed  EscrowStatus = "disputed"
)

// DefaultEscrowTTL is how long an escrow may stay pending before the sweep
// cancels it and refunds the buyer.
const DefaultEscrowTTL = 7 * 24 * time.Hour

// EscrowAccount holds funds pledged by a buyer for a marketplace trade.
// While pending, Amount lives in the buyer wallet's escrow balance; it reaches
// the seller only on completion and returns to the buyer on cancellation.
type EscrowAccount struct {
	ID              uuid.UUID       `json:"id"`
	BuyerWalletID   uuid.UUID       `json:"buyerWalletId"`
	SellerWalletID  uuid.UUID       `json:"sellerWalletId"`
	Amount          decimal.Decimal `json:"amount"`
	ListingID       string          `json:"listingId"`
	Status          EscrowStatus    `json:"status"`
	DisputeReason   null.String     `json:"disputeReason,omitempty"`
	DisputeEvidence null.String     `json:"disputeEvidence,omitempty"`
	DisputedAt      *time.Time      `json:"disputedAt,omitempty"`
	CompletedAt     *time.Time      `json:"completedAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	ExpiresAt       time.Time       `json:"expiresAt"`
}

// IsTerminal reports whether the escrow can no longer transition. A disputed
// escrow is terminal for this engine; arbitration happens out of band.
func (e *EscrowAccount) IsTerminal() bool {
	return e.Status != EscrowStatusPending
}

// Expired reports whether a pending escrow has outlived its TTL.
func (e *EscrowAccount) Expired(now time.Time) bool {
	return e.Status == EscrowStatusPending && now.After(e.ExpiresAt)
}

// ReleaseOutcome selects how a pending escrow resolves.
type ReleaseOutcome string

const (
	ReleaseOutcomeComplete ReleaseOutcome = "complete"
	ReleaseOutcomeCancel   ReleaseOutcome = "cancel"
)

// ReleaseEscrowInput is the request body for releasing an escrow.
type ReleaseEscrowInput struct {
	ReleaseType ReleaseOutcome `json:"releaseType" binding:"required"`
}

// DisputeEscrowInput is the request body for filing a dispute.
type DisputeEscrowInput struct {
	Reason   string `json:"reason" binding:"required"`
	Evidence string `json:"evidence"`
}
