package entities

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestWallet_TotalAndCanSpend(t *testing.T) {
	w := &Wallet{
		AvailableBalance: decimal.RequireFromString("60"),
		EscrowBalance:    decimal.RequireFromString("40"),
	}
	require.Equal(t, "100", w.Total().String())

	require.True(t, w.CanSpend(decimal.RequireFromString("60")))
	require.False(t, w.CanSpend(decimal.RequireFromString("60.00000001")))
	// Escrow-held funds are not spendable.
	require.False(t, w.CanSpend(decimal.RequireFromString("100")))
}

func TestWallet_BalanceResponseUsesStrings(t *testing.T) {
	w := &Wallet{
		AvailableBalance: decimal.RequireFromString("12.5"),
		EscrowBalance:    decimal.RequireFromString("3"),
		TotalRewards:     decimal.RequireFromString("0.5"),
	}
	resp := w.ToBalanceResponse()
	require.Equal(t, "12.5", resp.AvailableBalance)
	require.Equal(t, "3", resp.EscrowBalance)
	require.Equal(t, "15.5", resp.TotalBalance)
	require.Equal(t, "0.5", resp.TotalRewards)
}

func TestTransactionStatus_IsTerminal(t *testing.T) {
	require.False(t, TransactionStatusPending.IsTerminal())
	require.True(t, TransactionStatusCompleted.IsTerminal())
	require.True(t, TransactionStatusCancelled.IsTerminal())
	require.True(t, TransactionStatusDisputed.IsTerminal())
}

func TestEscrowAccount_TerminalAndExpired(t *testing.T) {
	now := time.Now()
	esc := &EscrowAccount{Status: EscrowStatusPending, ExpiresAt: now.Add(time.Hour)}
	require.False(t, esc.IsTerminal())
	require.False(t, esc.Expired(now))
	require.True(t, esc.Expired(now.Add(2*time.Hour)))

	for _, status := range []EscrowStatus{EscrowStatusCompleted, EscrowStatusCancelled, EscrowStatusDisputed} {
		esc := &EscrowAccount{Status: status}
		require.True(t, esc.IsTerminal(), "status %s", status)
	}
}
