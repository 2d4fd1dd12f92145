package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"spay.backend/internal/domain/entities"
)

// EscrowRepository defines escrow account data operations.
type EscrowRepository interface {
	Create(ctx context.Context, escrow *entities.EscrowAccount) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.EscrowAccount, error)
	ListByWallet(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*entities.EscrowAccount, int, error)
	Update(ctx context.Context, escrow *entities.EscrowAccount) error
	ListExpiredPending(ctx context.Context, before time.Time, limit int) ([]*entities.EscrowAccount, error)
	CountPending(ctx context.Context) (int64, error)
}
