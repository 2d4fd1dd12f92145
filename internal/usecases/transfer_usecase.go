package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"spay.backend/internal/domain/entities"
	domainerrors "spay.backend/internal/domain/errors"
	"spay.backend/internal/domain/events"
	"spay.backend/internal/domain/repositories"
	"spay.backend/pkg/money"
	"spay.backend/pkg/utils"
)

// TransferUsecase is the engine's public entry point. It resolves wallets,
// validates inputs, and drives the wallet accessor, the ledger, and the
// escrow state machine.
type TransferUsecase struct {
	walletRepo repositories.WalletRepository
	txRepo     repositories.TransactionRepository
	accessor   repositories.WalletAccessor
	escrow     *EscrowUsecase
	publisher  events.Publisher
}

// NewTransferUsecase creates a new transfer usecase
func NewTransferUsecase(
	walletRepo repositories.WalletRepository,
	txRepo repositories.TransactionRepository,
	accessor repositories.WalletAccessor,
	escrow *EscrowUsecase,
	publisher events.Publisher,
) *TransferUsecase {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &TransferUsecase{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		accessor:   accessor,
		escrow:     escrow,
		publisher:  publisher,
	}
}

// InitiateTransfer dispatches a transfer request to the direct or the escrow
// flow.
func (u *TransferUsecase) InitiateTransfer(ctx context.Context, senderUserID uuid.UUID, input *entities.InitiateTransferInput) (*entities.InitiateTransferResponse, error) {
	recipientUserID, err := uuid.Parse(input.RecipientID)
	if err != nil {
		return nil, domainerrors.ErrInvalidInput
	}

	switch input.TransferType {
	case entities.TransferTypeDirect:
		tx, err := u.TransferDirect(ctx, senderUserID, recipientUserID, input.Amount, input.Description)
		if err != nil {
			return nil, err
		}
		return &entities.InitiateTransferResponse{Transaction: tx}, nil
	case entities.TransferTypeEscrow:
		if input.ListingID == "" {
			return nil, domainerrors.ErrInvalidInput
		}
		tx, escrow, err := u.TransferEscrow(ctx, senderUserID, recipientUserID, input.Amount, input.ListingID, input.Description)
		if err != nil {
			return nil, err
		}
		return &entities.InitiateTransferResponse{Transaction: tx, Escrow: escrow}, nil
	default:
		return nil, domainerrors.ErrInvalidInput
	}
}

// TransferDirect moves funds immediately and unconditionally between two
// wallets and writes one completed ledger entry. The debit and credit commit
// atomically inside both wallets' exclusive sections.
func (u *TransferUsecase) TransferDirect(ctx context.Context, senderUserID, recipientUserID uuid.UUID, amountStr, description string) (*entities.Transaction, error) {
	start := time.Now()
	var err error
	defer func() { observeOp("transfer_direct", start, err) }()

	amount, parseErr := money.ParsePositive(amountStr)
	if parseErr != nil {
		err = domainerrors.ErrInvalidInput
		return nil, err
	}
	if senderUserID == recipientUserID {
		err = domainerrors.ErrInvalidInput
		return nil, err
	}

	sender, err := u.walletRepo.GetByUserID(ctx, senderUserID)
	if err != nil {
		return nil, err
	}
	recipient, err := u.walletRepo.GetByUserID(ctx, recipientUserID)
	if err != nil {
		return nil, err
	}

	tx := &entities.Transaction{
		ID:                utils.GenerateUUIDv7(),
		SenderWalletID:    &sender.ID,
		RecipientWalletID: recipient.ID,
		Amount:            amount,
		Type:              entities.TransactionTypeDirect,
		Status:            entities.TransactionStatusCompleted,
		Description:       nullableString(description),
		CreatedAt:         time.Now().UTC(),
	}

	err = u.accessor.WithTwoWallets(ctx, sender.ID, recipient.ID,
		func(txCtx context.Context, from, to *entities.Wallet) error {
			if !from.CanSpend(amount) {
				return domainerrors.ErrInsufficientFunds
			}
			from.AvailableBalance = from.AvailableBalance.Sub(amount)
			to.AvailableBalance = to.AvailableBalance.Add(amount)
			return u.txRepo.Create(txCtx, tx)
		})
	if err != nil {
		return nil, err
	}

	u.publisher.Publish(ctx, &events.Event{
		ID:            utils.GenerateUUIDv7(),
		Type:          events.TransferCompleted,
		TransactionID: tx.ID,
		WalletID:      recipient.ID,
		Amount:        amount.String(),
		OccurredAt:    time.Now().UTC(),
	})

	return tx, nil
}

// TransferEscrow opens an escrow between the buyer's and seller's wallets.
func (u *TransferUsecase) TransferEscrow(ctx context.Context, buyerUserID, sellerUserID uuid.UUID, amountStr, listingID, description string) (*entities.Transaction, *entities.EscrowAccount, error) {
	amount, err := money.ParsePositive(amountStr)
	if err != nil {
		return nil, nil, domainerrors.ErrInvalidInput
	}
	if buyerUserID == sellerUserID {
		return nil, nil, domainerrors.ErrInvalidInput
	}

	buyer, err := u.walletRepo.GetByUserID(ctx, buyerUserID)
	if err != nil {
		return nil, nil, err
	}
	seller, err := u.walletRepo.GetByUserID(ctx, sellerUserID)
	if err != nil {
		return nil, nil, err
	}

	return u.escrow.Create(ctx, buyer.ID, seller.ID, amount, listingID, description)
}

// ResolveEscrow releases a pending escrow to completion or cancellation.
func (u *TransferUsecase) ResolveEscrow(ctx context.Context, escrowID uuid.UUID, outcome entities.ReleaseOutcome, actorUserID uuid.UUID) (*entities.EscrowAccount, error) {
	return u.escrow.Release(ctx, escrowID, outcome, actorUserID)
}

// FileDispute records a dispute on a pending escrow.
func (u *TransferUsecase) FileDispute(ctx context.Context, escrowID uuid.UUID, reason, evidence string, actorUserID uuid.UUID) (*entities.EscrowAccount, error) {
	return u.escrow.Dispute(ctx, escrowID, reason, evidence, actorUserID)
}

// MintReward credits a platform-funded incentive into the user's wallet.
// This is the only value-creating operation in the engine: the amount has no
// debit leg anywhere.
func (u *TransferUsecase) MintReward(ctx context.Context, userID uuid.UUID, rewardType, amountStr, referenceID string) (*entities.Transaction, error) {
	start := time.Now()
	var err error
	defer func() { observeOp("reward_mint", start, err) }()

	if rewardType == "" || referenceID == "" {
		err = domainerrors.ErrInvalidInput
		return nil, err
	}
	amount, parseErr := money.ParsePositive(amountStr)
	if parseErr != nil {
		err = domainerrors.ErrInvalidInput
		return nil, err
	}

	var wallet *entities.Wallet
	wallet, err = u.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	tx := &entities.Transaction{
		ID:                utils.GenerateUUIDv7(),
		RecipientWalletID: wallet.ID,
		Amount:            amount,
		Type:              entities.TransactionTypeReward,
		Status:            entities.TransactionStatusCompleted,
		RewardType:        nullableString(rewardType),
		ReferenceID:       nullableString(referenceID),
		CreatedAt:         time.Now().UTC(),
	}

	err = u.accessor.WithWallet(ctx, wallet.ID, func(txCtx context.Context, w *entities.Wallet) error {
		w.AvailableBalance = w.AvailableBalance.Add(amount)
		w.TotalRewards = w.TotalRewards.Add(amount)
		return u.txRepo.Create(txCtx, tx)
	})
	if err != nil {
		return nil, err
	}

	u.publisher.Publish(ctx, &events.Event{
		ID:            utils.GenerateUUIDv7(),
		Type:          events.RewardMinted,
		TransactionID: tx.ID,
		WalletID:      wallet.ID,
		Amount:        amount.String(),
		OccurredAt:    time.Now().UTC(),
		Metadata:      rewardType,
	})

	return tx, nil
}

// GetWallet returns the caller's wallet.
func (u *TransferUsecase) GetWallet(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error) {
	return u.walletRepo.GetByUserID(ctx, userID)
}

// GetTransaction returns a ledger entry the caller is party to.
func (u *TransferUsecase) GetTransaction(ctx context.Context, id, actorUserID uuid.UUID) (*entities.Transaction, error) {
	tx, err := u.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	wallet, err := u.walletRepo.GetByUserID(ctx, actorUserID)
	if err != nil {
		return nil, err
	}
	if wallet.ID != tx.RecipientWalletID && (tx.SenderWalletID == nil || wallet.ID != *tx.SenderWalletID) {
		return nil, domainerrors.ErrUnauthorized
	}
	return tx, nil
}

// ListTransactions lists the caller's ledger history, newest first.
func (u *TransferUsecase) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Transaction, int, error) {
	wallet, err := u.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return u.txRepo.ListByWallet(ctx, wallet.ID, limit, offset)
}
