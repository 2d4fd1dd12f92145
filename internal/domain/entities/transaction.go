package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// TransactionType identifies how a ledger entry moved value.
type TransactionType string

const (
	TransactionTypeDirect     TransactionType = "direct"
	TransactionTypeEscrowHold TransactionType = "escrow_hold"
	TransactionTypeReward     TransactionType = "reward"
)

// TransactionStatus is the lifecycle state of a ledger entry.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
	TransactionStatusDisputed  TransactionStatus = "disputed"
)

// IsTerminal reports whether no further status transition is allowed.
func (s TransactionStatus) IsTerminal() bool {
	switch s {
	case TransactionStatusCompleted, TransactionStatusCancelled, TransactionStatusDisputed:
		return true
	}
	return false
}

// Transaction is an append-only ledger entry. A direct or reward entry is
// written already completed and never mutated; an escrow_hold entry is written
// pending and transitions exactly once, mirroring its escrow account.
type Transaction struct {
	ID                uuid.UUID         `json:"id"`
	SenderWalletID    *uuid.UUID        `json:"senderWalletId,omitempty"` // nil for reward mints
	RecipientWalletID uuid.UUID         `json:"recipientWalletId"`
	Amount            decimal.Decimal   `json:"amount"`
	Type              TransactionType   `json:"type"`
	Status            TransactionStatus `json:"status"`
	EscrowID          *uuid.UUID        `json:"escrowId,omitempty"`
	Description       null.String       `json:"description,omitempty"`
	RewardType        null.String       `json:"rewardType,omitempty"`
	ReferenceID       null.String       `json:"referenceId,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
}

// TransferType selects the flow for an inbound transfer request.
type TransferType string

const (
	TransferTypeDirect TransferType = "direct"
	TransferTypeEscrow TransferType = "escrow"
)

// InitiateTransferInput is the request body for initiating a transfer.
type InitiateTransferInput struct {
	RecipientID  string       `json:"recipientId" binding:"required"`
	Amount       string       `json:"amount" binding:"required"`
	TransferType TransferType `json:"transferType" binding:"required"`
	ListingID    string       `json:"listingId"`
	Description  string       `json:"description"`
}

// InitiateTransferResponse pairs the ledger entry with the escrow account
// when the escrow flow was chosen.
type InitiateTransferResponse struct {
	Transaction *Transaction   `json:"transaction"`
	Escrow      *EscrowAccount `json:"escrow,omitempty"`
}

// ProcessRewardInput is the request body for minting a reward.
type ProcessRewardInput struct {
	RewardType  string `json:"rewardType" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
	ReferenceID string `json:"referenceId" binding:"required"`
}
