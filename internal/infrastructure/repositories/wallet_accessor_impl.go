package repositories

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"spay.backend/internal/domain/entities"
	domainerrors "spay.backend/internal/domain/errors"
	domainRepos "spay.backend/internal/domain/repositories"
)

// DefaultLockTimeout bounds the wait for a wallet's exclusive section when no
// timeout is configured.
const DefaultLockTimeout = 5 * time.Second

// walletAccessor implements repositories.WalletAccessor with in-process
// per-wallet locks. Every balance mutation in the engine goes through here,
// closing the read-then-write race of unguarded balance updates.
type walletAccessor struct {
	walletRepo  domainRepos.WalletRepository
	uow         domainRepos.UnitOfWork
	lockTimeout time.Duration
	locks       sync.Map // wallet id -> chan struct{} (1-buffered)
}

// NewWalletAccessor creates a wallet accessor. lockTimeout <= 0 falls back to
// DefaultLockTimeout.
func NewWalletAccessor(walletRepo domainRepos.WalletRepository, uow domainRepos.UnitOfWork, lockTimeout time.Duration) domainRepos.WalletAccessor {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}
	return &walletAccessor{
		walletRepo:  walletRepo,
		uow:         uow,
		lockTimeout: lockTimeout,
	}
}

// acquire takes the exclusive section for a wallet id. The wait is bounded by
// the configured lock timeout and by the caller's context.
func (a *walletAccessor) acquire(ctx context.Context, id uuid.UUID) (func(), error) {
	v, _ := a.locks.LoadOrStore(id, make(chan struct{}, 1))
	ch := v.(chan struct{})

	timer := time.NewTimer(a.lockTimeout)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, domainerrors.ErrTimeout
	}
}

// WithWallet runs fn inside the wallet's exclusive section and a storage
// transaction. The wallet is read inside the transaction and persisted only
// when fn succeeds, so a mid-failure commits nothing.
func (a *walletAccessor) WithWallet(ctx context.Context, id uuid.UUID, fn func(ctx context.Context, w *entities.Wallet) error) error {
	unlock, err := a.acquire(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	return a.uow.Do(ctx, func(txCtx context.Context) error {
		w, err := a.walletRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := fn(txCtx, w); err != nil {
			return err
		}
		return a.walletRepo.UpdateBalances(txCtx, w)
	})
}

// WithTwoWallets runs fn holding both wallets' sections, acquired in a fixed
// total order by id so that crossing transfers cannot deadlock.
func (a *walletAccessor) WithTwoWallets(ctx context.Context, idA, idB uuid.UUID, fn func(ctx context.Context, wa, wb *entities.Wallet) error) error {
	if idA == idB {
		return domainerrors.ErrInvalidInput
	}

	first, second := idA, idB
	if strings.Compare(idA.String(), idB.String()) > 0 {
		first, second = idB, idA
	}

	unlockFirst, err := a.acquire(ctx, first)
	if err != nil {
		return err
	}
	defer unlockFirst()

	unlockSecond, err := a.acquire(ctx, second)
	if err != nil {
		return err
	}
	defer unlockSecond()

	return a.uow.Do(ctx, func(txCtx context.Context) error {
		wa, err := a.walletRepo.GetByID(txCtx, idA)
		if err != nil {
			return err
		}
		wb, err := a.walletRepo.GetByID(txCtx, idB)
		if err != nil {
			return err
		}
		if err := fn(txCtx, wa, wb); err != nil {
			return err
		}
		if err := a.walletRepo.UpdateBalances(txCtx, wa); err != nil {
			return err
		}
		return a.walletRepo.UpdateBalances(txCtx, wb)
	})
}
