package repositories

import (
	"context"

	"github.com/google/uuid"
	"spay.backend/internal/domain/entities"
)

// WalletAccessor serializes balance mutations per wallet. The callback runs
// inside an exclusive per-wallet section and a storage transaction: the wallet
// passed to fn was read inside that transaction, and the mutated wallet plus
// any repository writes fn makes through the callback context are persisted
// all-or-nothing. Lock waits are bounded and surface ErrTimeout.
type WalletAccessor interface {
	WithWallet(ctx context.Context, id uuid.UUID, fn func(ctx context.Context, w *entities.Wallet) error) error

	// WithTwoWallets acquires both wallets' sections in a fixed total order
	// (by id) so that two opposite-direction transfers cannot deadlock.
	WithTwoWallets(ctx context.Context, idA, idB uuid.UUID, fn func(ctx context.Context, wa, wb *entities.Wallet) error) error
}
