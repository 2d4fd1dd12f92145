package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"spay.backend/internal/domain/entities"
	domainerrors "spay.backend/internal/domain/errors"
	domainRepos "spay.backend/internal/domain/repositories"
	"spay.backend/internal/infrastructure/models"
	"spay.backend/pkg/utils"
)

// walletRepo implements repositories.WalletRepository
type walletRepo struct {
	db *gorm.DB
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *gorm.DB) domainRepos.WalletRepository {
	return &walletRepo{db: db}
}

// Create creates a new wallet record. Wallet creation is driven by the user
// directory; the engine only needs it for provisioning and tests.
func (r *walletRepo) Create(ctx context.Context, wallet *entities.Wallet) error {
	if wallet.ID == uuid.Nil {
		wallet.ID = utils.GenerateUUIDv7()
	}
	now := time.Now().UTC()
	wallet.CreatedAt = now
	wallet.UpdatedAt = now

	m := walletToModel(wallet)
	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// GetByID gets a wallet by ID
func (r *walletRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error) {
	var m models.Wallet
	if err := GetDB(ctx, r.db).WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return walletToEntity(&m)
}

// GetByUserID gets the single wallet owned by a user.
func (r *walletRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error) {
	var m models.Wallet
	if err := GetDB(ctx, r.db).WithContext(ctx).First(&m, "user_id = ?", userID).Error; err != nil {
		return nil, translateError(err)
	}
	return walletToEntity(&m)
}

// UpdateBalances replaces a wallet's balance columns. Callers hold the
// wallet's exclusive section; this is a full replace of the mutable fields.
func (r *walletRepo) UpdateBalances(ctx context.Context, wallet *entities.Wallet) error {
	res := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Wallet{}).
		Where("id = ?", wallet.ID).
		Updates(map[string]interface{}{
			"available_balance": wallet.AvailableBalance.String(),
			"escrow_balance":    wallet.EscrowBalance.String(),
			"total_rewards":     wallet.TotalRewards.String(),
			"updated_at":        time.Now().UTC(),
		})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func walletToModel(w *entities.Wallet) *models.Wallet {
	return &models.Wallet{
		ID:               w.ID,
		UserID:           w.UserID,
		AvailableBalance: w.AvailableBalance.String(),
		EscrowBalance:    w.EscrowBalance.String(),
		TotalRewards:     w.TotalRewards.String(),
		CreatedAt:        w.CreatedAt,
		UpdatedAt:        w.UpdatedAt,
	}
}

func walletToEntity(m *models.Wallet) (*entities.Wallet, error) {
	available, err := decimal.NewFromString(m.AvailableBalance)
	if err != nil {
		return nil, fmt.Errorf("%w: corrupt available balance on wallet %s", domainerrors.ErrStoreUnavailable, m.ID)
	}
	escrow, err := decimal.NewFromString(m.EscrowBalance)
	if err != nil {
		return nil, fmt.Errorf("%w: corrupt escrow balance on wallet %s", domainerrors.ErrStoreUnavailable, m.ID)
	}
	rewards, err := decimal.NewFromString(m.TotalRewards)
	if err != nil {
		return nil, fmt.Errorf("%w: corrupt reward total on wallet %s", domainerrors.ErrStoreUnavailable, m.ID)
	}

	return &entities.Wallet{
		ID:               m.ID,
		UserID:           m.UserID,
		AvailableBalance: available,
		EscrowBalance:    escrow,
		TotalRewards:     rewards,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}, nil
}
