package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"spay.backend/internal/domain/entities"
	domainerrors "spay.backend/internal/domain/errors"
	domainRepos "spay.backend/internal/domain/repositories"
	"spay.backend/internal/infrastructure/models"
	"spay.backend/pkg/utils"
)

// escrowRepo implements repositories.EscrowRepository
type escrowRepo struct {
	db *gorm.DB
}

// NewEscrowRepository creates a new escrow repository
func NewEscrowRepository(db *gorm.DB) domainRepos.EscrowRepository {
	return &escrowRepo{db: db}
}

// Create inserts an escrow account.
func (r *escrowRepo) Create(ctx context.Context, escrow *entities.EscrowAccount) error {
	if escrow.ID == uuid.Nil {
		escrow.ID = utils.GenerateUUIDv7()
	}
	if escrow.CreatedAt.IsZero() {
		escrow.CreatedAt = time.Now().UTC()
	}

	m := escrowToModel(escrow)
	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// GetByID gets an escrow account by ID
func (r *escrowRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.EscrowAccount, error) {
	var m models.EscrowAccount
	if err := GetDB(ctx, r.db).WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return escrowToEntity(&m)
}

// ListByWallet lists escrows where the wallet is buyer or seller, newest first.
func (r *escrowRepo) ListByWallet(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*entities.EscrowAccount, int, error) {
	db := GetDB(ctx, r.db).WithContext(ctx).Model(&models.EscrowAccount{}).
		Where("buyer_wallet_id = ? OR seller_wallet_id = ?", walletID, walletID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	var rows []models.EscrowAccount
	if err := db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, translateError(err)
	}

	escrows := make([]*entities.EscrowAccount, 0, len(rows))
	for i := range rows {
		e, err := escrowToEntity(&rows[i])
		if err != nil {
			return nil, 0, err
		}
		escrows = append(escrows, e)
	}
	return escrows, int(total), nil
}

// Update replaces an escrow's mutable fields (status, dispute record,
// timestamps). Guarded by the pending-state check so a terminal escrow is
// never rewritten even under a racing update.
func (r *escrowRepo) Update(ctx context.Context, escrow *entities.EscrowAccount) error {
	res := GetDB(ctx, r.db).WithContext(ctx).Model(&models.EscrowAccount{}).
		Where("id = ? AND status = ?", escrow.ID, string(entities.EscrowStatusPending)).
		Updates(map[string]interface{}{
			"status":           string(escrow.Status),
			"dispute_reason":   escrow.DisputeReason.Ptr(),
			"dispute_evidence": escrow.DisputeEvidence.Ptr(),
			"disputed_at":      escrow.DisputedAt,
			"completed_at":     escrow.CompletedAt,
		})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := GetDB(ctx, r.db).WithContext(ctx).Model(&models.EscrowAccount{}).
			Where("id = ?", escrow.ID).Count(&count).Error; err != nil {
			return translateError(err)
		}
		if count == 0 {
			return domainerrors.ErrNotFound
		}
		return domainerrors.ErrInvalidState
	}
	return nil
}

// ListExpiredPending returns pending escrows whose TTL has elapsed, oldest
// first, for the expiry sweep.
func (r *escrowRepo) ListExpiredPending(ctx context.Context, before time.Time, limit int) ([]*entities.EscrowAccount, error) {
	var rows []models.EscrowAccount
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Where("status = ? AND expires_at < ?", string(entities.EscrowStatusPending), before).
		Order("expires_at ASC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}

	escrows := make([]*entities.EscrowAccount, 0, len(rows))
	for i := range rows {
		e, err := escrowToEntity(&rows[i])
		if err != nil {
			return nil, err
		}
		escrows = append(escrows, e)
	}
	return escrows, nil
}

// CountPending counts escrow accounts still awaiting resolution.
func (r *escrowRepo) CountPending(ctx context.Context) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).WithContext(ctx).Model(&models.EscrowAccount{}).
		Where("status = ?", string(entities.EscrowStatusPending)).
		Count(&count).Error; err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

func escrowToModel(e *entities.EscrowAccount) *models.EscrowAccount {
	return &models.EscrowAccount{
		ID:              e.ID,
		BuyerWalletID:   e.BuyerWalletID,
		SellerWalletID:  e.SellerWalletID,
		Amount:          e.Amount.String(),
		ListingID:       e.ListingID,
		Status:          string(e.Status),
		DisputeReason:   e.DisputeReason.Ptr(),
		DisputeEvidence: e.DisputeEvidence.Ptr(),
		DisputedAt:      e.DisputedAt,
		CompletedAt:     e.CompletedAt,
		CreatedAt:       e.CreatedAt,
		ExpiresAt:       e.ExpiresAt,
	}
}

func escrowToEntity(m *models.EscrowAccount) (*entities.EscrowAccount, error) {
	amount, err := decimal.NewFromString(m.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: corrupt amount on escrow %s", domainerrors.ErrStoreUnavailable, m.ID)
	}

	return &entities.EscrowAccount{
		ID:              m.ID,
		BuyerWalletID:   m.BuyerWalletID,
		SellerWalletID:  m.SellerWalletID,
		Amount:          amount,
		ListingID:       m.ListingID,
		Status:          entities.EscrowStatus(m.Status),
		DisputeReason:   null.StringFromPtr(m.DisputeReason),
		DisputeEvidence: null.StringFromPtr(m.DisputeEvidence),
		DisputedAt:      m.DisputedAt,
		CompletedAt:     m.CompletedAt,
		CreatedAt:       m.CreatedAt,
		ExpiresAt:       m.ExpiresAt,
	}, nil
}
