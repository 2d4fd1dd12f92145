package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"spay.backend/internal/domain/entities"
	domainerrors "spay.backend/internal/domain/errors"
	"spay.backend/internal/domain/events"
	"spay.backend/internal/domain/repositories"
	"spay.backend/pkg/utils"
)

// EscrowUsecase governs the lifecycle of held-funds agreements:
// pending -> completed | cancelled | disputed. Disputed is terminal for this
// engine; arbitration resolves it out of band.
type EscrowUsecase struct {
	walletRepo repositories.WalletRepository
	escrowRepo repositories.EscrowRepository
	txRepo     repositories.TransactionRepository
	accessor   repositories.WalletAccessor
	uow        repositories.UnitOfWork
	publisher  events.Publisher
	ttl        time.Duration
}

// NewEscrowUsecase creates a new escrow usecase. ttl <= 0 falls back to the
// default 7-day escrow TTL.
func NewEscrowUsecase(
	walletRepo repositories.WalletRepository,
	escrowRepo repositories.EscrowRepository,
	txRepo repositories.TransactionRepository,
	accessor repositories.WalletAccessor,
	uow repositories.UnitOfWork,
	publisher events.Publisher,
	ttl time.Duration,
) *EscrowUsecase {
	if ttl <= 0 {
		ttl = entities.DefaultEscrowTTL
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &EscrowUsecase{
		walletRepo: walletRepo,
		escrowRepo: escrowRepo,
		txRepo:     txRepo,
		accessor:   accessor,
		uow:        uow,
		publisher:  publisher,
		ttl:        ttl,
	}
}

// Create opens an escrow: the amount moves from the buyer's available balance
// into its escrow balance, and the account is written atomically with its
// paired escrow_hold ledger entry.
func (u *EscrowUsecase) Create(ctx context.Context, buyerWalletID, sellerWalletID uuid.UUID, amount decimal.Decimal, listingID, description string) (*entities.Transaction, *entities.EscrowAccount, error) {
	start := time.Now()
	var err error
	defer func() { observeOp("escrow_create", start, err) }()

	if buyerWalletID == sellerWalletID {
		err = domainerrors.ErrInvalidInput
		return nil, nil, err
	}

	// The seller wallet is not mutated on create, but it must exist.
	if _, err = u.walletRepo.GetByID(ctx, sellerWalletID); err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	escrow := &entities.EscrowAccount{
		ID:             utils.GenerateUUIDv7(),
		BuyerWalletID:  buyerWalletID,
		SellerWalletID: sellerWalletID,
		Amount:         amount,
		ListingID:      listingID,
		Status:         entities.EscrowStatusPending,
		CreatedAt:      now,
		ExpiresAt:      now.Add(u.ttl),
	}
	hold := &entities.Transaction{
		ID:                utils.GenerateUUIDv7(),
		SenderWalletID:    &buyerWalletID,
		RecipientWalletID: sellerWalletID,
		Amount:            amount,
		Type:              entities.TransactionTypeEscrowHold,
		Status:            entities.TransactionStatusPending,
		EscrowID:          &escrow.ID,
		Description:       nullableString(description),
		CreatedAt:         now,
	}

	err = u.accessor.WithWallet(ctx, buyerWalletID, func(txCtx context.Context, buyer *entities.Wallet) error {
		if !buyer.CanSpend(amount) {
			return domainerrors.ErrInsufficientFunds
		}
		buyer.AvailableBalance = buyer.AvailableBalance.Sub(amount)
		buyer.EscrowBalance = buyer.EscrowBalance.Add(amount)

		if err := u.escrowRepo.Create(txCtx, escrow); err != nil {
			return err
		}
		return u.txRepo.Create(txCtx, hold)
	})
	if err != nil {
		return nil, nil, err
	}

	escrowOpenGauge.Inc()
	u.publisher.Publish(ctx, &events.Event{
		ID:            utils.GenerateUUIDv7(),
		Type:          events.EscrowCreated,
		TransactionID: hold.ID,
		EscrowID:      &escrow.ID,
		WalletID:      buyerWalletID,
		Amount:        amount.String(),
		OccurredAt:    time.Now().UTC(),
	})

	return hold, escrow, nil
}

// Release resolves a pending escrow. On complete the amount moves from the
// buyer's escrow balance to the seller's available balance; on cancel it is
// refunded to the buyer. The escrow, its ledger entry, and the wallet(s)
// change in one storage transaction.
func (u *EscrowUsecase) Release(ctx context.Context, escrowID uuid.UUID, outcome entities.ReleaseOutcome, actorUserID uuid.UUID) (*entities.EscrowAccount, error) {
	start := time.Now()
	var err error
	defer func() { observeOp("escrow_release", start, err) }()

	var escrow *entities.EscrowAccount
	escrow, err = u.release(ctx, escrowID, outcome, actorUserID, true)
	return escrow, err
}

// Expire cancels a pending escrow on behalf of the background sweep,
// refunding the buyer. It skips the party check: expiry is a system
// action, not a user one, and this method is never exposed over HTTP.
func (u *EscrowUsecase) Expire(ctx context.Context, escrowID uuid.UUID) error {
	start := time.Now()
	var err error
	defer func() { observeOp("escrow_expire", start, err) }()

	_, err = u.release(ctx, escrowID, entities.ReleaseOutcomeCancel, uuid.Nil, false)
	return err
}

func (u *EscrowUsecase) release(ctx context.Context, escrowID uuid.UUID, outcome entities.ReleaseOutcome, actorUserID uuid.UUID, enforceParty bool) (*entities.EscrowAccount, error) {
	if outcome != entities.ReleaseOutcomeComplete && outcome != entities.ReleaseOutcomeCancel {
		return nil, domainerrors.ErrInvalidInput
	}

	escrow, err := u.escrowRepo.GetByID(ctx, escrowID)
	if err != nil {
		return nil, err
	}
	if escrow.IsTerminal() {
		return nil, domainerrors.ErrInvalidState
	}
	if enforceParty {
		if err := u.authorizeParty(ctx, escrow, actorUserID); err != nil {
			return nil, err
		}
	}

	hold, err := u.txRepo.GetByEscrowID(ctx, escrowID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	amount := escrow.Amount

	if outcome == entities.ReleaseOutcomeComplete {
		escrow.Status = entities.EscrowStatusCompleted
		escrow.CompletedAt = &now

		err = u.accessor.WithTwoWallets(ctx, escrow.BuyerWalletID, escrow.SellerWalletID,
			func(txCtx context.Context, buyer, seller *entities.Wallet) error {
				if buyer.EscrowBalance.LessThan(amount) {
					return domainerrors.ErrInvalidState
				}
				buyer.EscrowBalance = buyer.EscrowBalance.Sub(amount)
				seller.AvailableBalance = seller.AvailableBalance.Add(amount)

				// The pending-state guard on the escrow row makes a racing
				// second release roll everything back here.
				if err := u.escrowRepo.Update(txCtx, escrow); err != nil {
					return err
				}
				return u.txRepo.UpdateStatus(txCtx, hold.ID, entities.TransactionStatusCompleted)
			})
	} else {
		escrow.Status = entities.EscrowStatusCancelled

		err = u.accessor.WithWallet(ctx, escrow.BuyerWalletID,
			func(txCtx context.Context, buyer *entities.Wallet) error {
				if buyer.EscrowBalance.LessThan(amount) {
					return domainerrors.ErrInvalidState
				}
				buyer.EscrowBalance = buyer.EscrowBalance.Sub(amount)
				buyer.AvailableBalance = buyer.AvailableBalance.Add(amount)

				if err := u.escrowRepo.Update(txCtx, escrow); err != nil {
					return err
				}
				return u.txRepo.UpdateStatus(txCtx, hold.ID, entities.TransactionStatusCancelled)
			})
	}
	if err != nil {
		return nil, err
	}

	escrowOpenGauge.Dec()
	u.publisher.Publish(ctx, &events.Event{
		ID:            utils.GenerateUUIDv7(),
		Type:          events.EscrowReleased,
		TransactionID: hold.ID,
		EscrowID:      &escrow.ID,
		WalletID:      escrow.BuyerWalletID,
		Amount:        amount.String(),
		OccurredAt:    time.Now().UTC(),
		Metadata:      string(outcome),
	})

	return escrow, nil
}

// Dispute parks a pending escrow. Funds stay in the buyer's escrow balance
// until arbitration resolves the case out of band.
func (u *EscrowUsecase) Dispute(ctx context.Context, escrowID uuid.UUID, reason, evidence string, actorUserID uuid.UUID) (*entities.EscrowAccount, error) {
	start := time.Now()
	var err error
	defer func() { observeOp("escrow_dispute", start, err) }()

	if reason == "" {
		err = domainerrors.ErrInvalidInput
		return nil, err
	}

	var escrow *entities.EscrowAccount
	escrow, err = u.escrowRepo.GetByID(ctx, escrowID)
	if err != nil {
		return nil, err
	}
	if escrow.IsTerminal() {
		err = domainerrors.ErrInvalidState
		return nil, err
	}
	if err = u.authorizeParty(ctx, escrow, actorUserID); err != nil {
		return nil, err
	}

	var hold *entities.Transaction
	hold, err = u.txRepo.GetByEscrowID(ctx, escrowID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	escrow.Status = entities.EscrowStatusDisputed
	escrow.DisputeReason = null.StringFrom(reason)
	escrow.DisputeEvidence = nullableString(evidence)
	escrow.DisputedAt = &now

	// No balances move, but the escrow row and its ledger entry must still
	// transition together.
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.escrowRepo.Update(txCtx, escrow); err != nil {
			return err
		}
		return u.txRepo.UpdateStatus(txCtx, hold.ID, entities.TransactionStatusDisputed)
	})
	if err != nil {
		return nil, err
	}

	escrowOpenGauge.Dec()
	u.publisher.Publish(ctx, &events.Event{
		ID:            utils.GenerateUUIDv7(),
		Type:          events.EscrowDisputed,
		TransactionID: hold.ID,
		EscrowID:      &escrow.ID,
		WalletID:      escrow.BuyerWalletID,
		Amount:        escrow.Amount.String(),
		OccurredAt:    now,
		Metadata:      reason,
	})

	return escrow, nil
}

// GetByID returns an escrow the actor is a party to.
func (u *EscrowUsecase) GetByID(ctx context.Context, escrowID, actorUserID uuid.UUID) (*entities.EscrowAccount, error) {
	escrow, err := u.escrowRepo.GetByID(ctx, escrowID)
	if err != nil {
		return nil, err
	}
	if err := u.authorizeParty(ctx, escrow, actorUserID); err != nil {
		return nil, err
	}
	return escrow, nil
}

// SyncOpenEscrows seeds the pending-escrow gauge from the store. Called at
// boot; afterwards the create and resolve paths keep it current, so without
// this a restart would report zero while pending escrows exist.
func (u *EscrowUsecase) SyncOpenEscrows(ctx context.Context) error {
	count, err := u.escrowRepo.CountPending(ctx)
	if err != nil {
		return err
	}
	escrowOpenGauge.Set(float64(count))
	return nil
}

// ListByUser lists escrows where the user's wallet is buyer or seller.
func (u *EscrowUsecase) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.EscrowAccount, int, error) {
	wallet, err := u.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return u.escrowRepo.ListByWallet(ctx, wallet.ID, limit, offset)
}

// authorizeParty verifies the actor owns the buyer or the seller wallet.
// There is no actor value that bypasses it; the expiry sweep goes through
// Expire, which does not call this at all.
func (u *EscrowUsecase) authorizeParty(ctx context.Context, escrow *entities.EscrowAccount, actorUserID uuid.UUID) error {
	if actorUserID == uuid.Nil {
		return domainerrors.ErrUnauthorized
	}

	buyer, err := u.walletRepo.GetByID(ctx, escrow.BuyerWalletID)
	if err != nil {
		return err
	}
	if buyer.UserID == actorUserID {
		return nil
	}

	seller, err := u.walletRepo.GetByID(ctx, escrow.SellerWalletID)
	if err != nil {
		return err
	}
	if seller.UserID == actorUserID {
		return nil
	}

	return domainerrors.ErrUnauthorized
}

func nullableString(s string) null.String {
	if s == "" {
		return null.String{}
	}
	return null.StringFrom(s)
}
