package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet represents a user's balance record. Wallets are created by the user
// directory before first use; this engine only mutates balances.
type Wallet struct {
	ID               uuid.UUID       `json:"id"`
	UserID           uuid.UUID       `json:"userId"`
	AvailableBalance decimal.Decimal `json:"availableBalance"`
	EscrowBalance    decimal.Decimal `json:"escrowBalance"`
	TotalRewards     decimal.Decimal `json:"totalRewards"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// Total returns the wallet's full holdings, spendable plus escrow-held.
func (w *Wallet) Total() decimal.Decimal {
	return w.AvailableBalance.Add(w.EscrowBalance)
}

// CanSpend reports whether the available balance covers amount.
func (w *Wallet) CanSpend(amount decimal.Decimal) bool {
	return w.AvailableBalance.GreaterThanOrEqual(amount)
}

// BalanceResponse is the caller-facing view of a wallet.
type BalanceResponse struct {
	WalletID         uuid.UUID `json:"walletId"`
	AvailableBalance string    `json:"availableBalance"`
	EscrowBalance    string    `json:"escrowBalance"`
	TotalBalance     string    `json:"totalBalance"`
	TotalRewards     string    `json:"totalRewards"`
}

// ToBalanceResponse converts a wallet to its API representation.
// Amounts are rendered as decimal strings, never floats.
func (w *Wallet) ToBalanceResponse() *BalanceResponse {
	return &BalanceResponse{
		WalletID:         w.ID,
		AvailableBalance: w.AvailableBalance.String(),
		EscrowBalance:    w.EscrowBalance.String(),
		TotalBalance:     w.Total().String(),
		TotalRewards:     w.TotalRewards.String(),
	}
}
