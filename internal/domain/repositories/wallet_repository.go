package repositories

import (
	"context"

	"github.com/google/uuid"
	"spay.backend/internal/domain/entities"
)

// WalletRepository defines wallet data operations. Balance writes must only
// happen through the WalletAccessor's exclusive section.
type WalletRepository interface {
	Create(ctx context.Context, wallet *entities.Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error)
	UpdateBalances(ctx context.Context, wallet *entities.Wallet) error
}
