package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"spay.backend/internal/domain/entities"
	domainerrors "spay.backend/internal/domain/errors"
)

func newDirectTx(sender, recipient uuid.UUID, amount string) *entities.Transaction {
	return &entities.Transaction{
		ID:                uuid.New(),
		SenderWalletID:    &sender,
		RecipientWalletID: recipient,
		Amount:            decimal.RequireFromString(amount),
		Type:              entities.TransactionTypeDirect,
		Status:            entities.TransactionStatusCompleted,
		Description:       null.StringFrom("coffee"),
	}
}

func TestTransactionRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	createTransactionTable(t, db)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	tx := newDirectTx(uuid.New(), uuid.New(), "25")
	require.NoError(t, repo.Create(ctx, tx))

	got, err := repo.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	require.Equal(t, entities.TransactionTypeDirect, got.Type)
	require.Equal(t, "coffee", got.Description.String)
	require.True(t, got.Amount.Equal(decimal.RequireFromString("25")))
	require.NotNil(t, got.SenderWalletID)
	require.Equal(t, *tx.SenderWalletID, *got.SenderWalletID)
}

func TestTransactionRepository_CreateTwiceConflicts(t *testing.T) {
	db := newTestDB(t)
	createTransactionTable(t, db)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	tx := newDirectTx(uuid.New(), uuid.New(), "5")
	require.NoError(t, repo.Create(ctx, tx))
	err := repo.Create(ctx, tx)
	require.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestTransactionRepository_RewardHasNoSender(t *testing.T) {
	db := newTestDB(t)
	createTransactionTable(t, db)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	tx := &entities.Transaction{
		ID:                uuid.New(),
		RecipientWalletID: uuid.New(),
		Amount:            decimal.RequireFromString("50"),
		Type:              entities.TransactionTypeReward,
		Status:            entities.TransactionStatusCompleted,
		RewardType:        null.StringFrom("referral_bonus"),
		ReferenceID:       null.StringFrom("ref-42"),
	}
	require.NoError(t, repo.Create(ctx, tx))

	got, err := repo.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	require.Nil(t, got.SenderWalletID)
	require.Equal(t, "referral_bonus", got.RewardType.String)
}

func TestTransactionRepository_GetByEscrowID(t *testing.T) {
	db := newTestDB(t)
	createTransactionTable(t, db)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	escrowID := uuid.New()
	sender := uuid.New()
	tx := &entities.Transaction{
		ID:                uuid.New(),
		SenderWalletID:    &sender,
		RecipientWalletID: uuid.New(),
		Amount:            decimal.RequireFromString("10"),
		Type:              entities.TransactionTypeEscrowHold,
		Status:            entities.TransactionStatusPending,
		EscrowID:          &escrowID,
	}
	require.NoError(t, repo.Create(ctx, tx))

	got, err := repo.GetByEscrowID(ctx, escrowID)
	require.NoError(t, err)
	require.Equal(t, tx.ID, got.ID)

	_, err = repo.GetByEscrowID(ctx, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestTransactionRepository_ListByWallet(t *testing.T) {
	db := newTestDB(t)
	createTransactionTable(t, db)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	wallet := uuid.New()
	other := uuid.New()
	require.NoError(t, repo.Create(ctx, newDirectTx(wallet, other, "1")))
	require.NoError(t, repo.Create(ctx, newDirectTx(other, wallet, "2")))
	require.NoError(t, repo.Create(ctx, newDirectTx(uuid.New(), uuid.New(), "3")))

	txs, total, err := repo.ListByWallet(ctx, wallet, 10, 0)
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, txs, 2)

	txs, total, err = repo.ListByWallet(ctx, wallet, 1, 0)
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, txs, 1)
}

func TestTransactionRepository_UpdateStatusGuard(t *testing.T) {
	db := newTestDB(t)
	createTransactionTable(t, db)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	sender := uuid.New()
	escrowID := uuid.New()
	tx := &entities.Transaction{
		ID:                uuid.New(),
		SenderWalletID:    &sender,
		RecipientWalletID: uuid.New(),
		Amount:            decimal.RequireFromString("10"),
		Type:              entities.TransactionTypeEscrowHold,
		Status:            entities.TransactionStatusPending,
		EscrowID:          &escrowID,
	}
	require.NoError(t, repo.Create(ctx, tx))

	require.NoError(t, repo.UpdateStatus(ctx, tx.ID, entities.TransactionStatusCompleted))

	got, err := repo.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	require.Equal(t, entities.TransactionStatusCompleted, got.Status)

	err = repo.UpdateStatus(ctx, tx.ID, entities.TransactionStatusCancelled)
	require.ErrorIs(t, err, domainerrors.ErrInvalidState)

	err = repo.UpdateStatus(ctx, uuid.New(), entities.TransactionStatusCompleted)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}
