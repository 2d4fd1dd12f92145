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

// transactionRepo implements repositories.TransactionRepository
type transactionRepo struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) domainRepos.TransactionRepository {
	return &transactionRepo{db: db}
}

// Create inserts a ledger entry. Inserting an id twice fails with Conflict;
// entries are never replaced.
func (r *transactionRepo) Create(ctx context.Context, tx *entities.Transaction) error {
	if tx.ID == uuid.Nil {
		tx.ID = utils.GenerateUUIDv7()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}

	m := transactionToModel(tx)
	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// GetByID gets a ledger entry by ID
func (r *transactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.Transaction, error) {
	var m models.Transaction
	if err := GetDB(ctx, r.db).WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return transactionToEntity(&m)
}

// GetByEscrowID gets the escrow_hold entry paired with an escrow account.
func (r *transactionRepo) GetByEscrowID(ctx context.Context, escrowID uuid.UUID) (*entities.Transaction, error) {
	var m models.Transaction
	if err := GetDB(ctx, r.db).WithContext(ctx).First(&m, "escrow_id = ?", escrowID).Error; err != nil {
		return nil, translateError(err)
	}
	return transactionToEntity(&m)
}

// ListByWallet lists ledger entries where the wallet is sender or recipient,
// newest first.
func (r *transactionRepo) ListByWallet(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*entities.Transaction, int, error) {
	db := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Transaction{}).
		Where("sender_wallet_id = ? OR recipient_wallet_id = ?", walletID, walletID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	var rows []models.Transaction
	if err := db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, translateError(err)
	}

	txs := make([]*entities.Transaction, 0, len(rows))
	for i := range rows {
		tx, err := transactionToEntity(&rows[i])
		if err != nil {
			return nil, 0, err
		}
		txs = append(txs, tx)
	}
	return txs, int(total), nil
}

// UpdateStatus performs the single terminal transition of an escrow_hold
// entry. A transition out of a terminal status fails with InvalidState.
func (r *transactionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.TransactionStatus) error {
	res := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ? AND status = ?", id, string(entities.TransactionStatusPending)).
		Update("status", string(status))
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing entry from one already settled.
		var count int64
		if err := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Transaction{}).
			Where("id = ?", id).Count(&count).Error; err != nil {
			return translateError(err)
		}
		if count == 0 {
			return domainerrors.ErrNotFound
		}
		return domainerrors.ErrInvalidState
	}
	return nil
}

func transactionToModel(tx *entities.Transaction) *models.Transaction {
	return &models.Transaction{
		ID:                tx.ID,
		SenderWalletID:    tx.SenderWalletID,
		RecipientWalletID: tx.RecipientWalletID,
		Amount:            tx.Amount.String(),
		Type:              string(tx.Type),
		Status:            string(tx.Status),
		EscrowID:          tx.EscrowID,
		Description:       tx.Description.Ptr(),
		RewardType:        tx.RewardType.Ptr(),
		ReferenceID:       tx.ReferenceID.Ptr(),
		CreatedAt:         tx.CreatedAt,
	}
}

func transactionToEntity(m *models.Transaction) (*entities.Transaction, error) {
	amount, err := decimal.NewFromString(m.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: corrupt amount on transaction %s", domainerrors.ErrStoreUnavailable, m.ID)
	}

	return &entities.Transaction{
		ID:                m.ID,
		SenderWalletID:    m.SenderWalletID,
		RecipientWalletID: m.RecipientWalletID,
		Amount:            amount,
		Type:              entities.TransactionType(m.Type),
		Status:            entities.TransactionStatus(m.Status),
		EscrowID:          m.EscrowID,
		Description:       null.StringFromPtr(m.Description),
		RewardType:        null.StringFromPtr(m.RewardType),
		ReferenceID:       null.StringFromPtr(m.ReferenceID),
		CreatedAt:         m.CreatedAt,
	}, nil
}
