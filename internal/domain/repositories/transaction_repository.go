package repositories

import (
	"context"

	"github.com/google/uuid"
	"spay.backend/internal/domain/entities"
)

// TransactionRepository defines ledger entry operations. Entries are
// insert-once; the only permitted mutation is the single terminal status
// transition tied to escrow resolution.
type TransactionRepository interface {
	Create(ctx context.Context, tx *entities.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Transaction, error)
	GetByEscrowID(ctx context.Context, escrowID uuid.UUID) (*entities.Transaction, error)
	ListByWallet(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*entities.Transaction, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.TransactionStatus) error
}
