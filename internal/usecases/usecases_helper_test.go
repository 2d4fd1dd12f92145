package usecases_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"spay.backend/internal/domain/entities"
	"spay.backend/internal/domain/repositories"
	infraRepos "spay.backend/internal/infrastructure/repositories"
	"spay.backend/internal/usecases"
)

// engine wires real repositories over an in-memory sqlite store. Balance
// invariants only mean something against real reads and writes, so these
// tests skip mocks entirely.
type engine struct {
	db         *gorm.DB
	walletRepo repositories.WalletRepository
	escrowRepo repositories.EscrowRepository
	txRepo     repositories.TransactionRepository
	escrow     *usecases.EscrowUsecase
	transfer   *usecases.TransferUsecase
}

func newEngine(t *testing.T) *engine {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")

	for _, q := range []string{
		`CREATE TABLE wallets (
			id TEXT PRIMARY KEY,
			user_id TEXT UNIQUE NOT NULL,
			available_balance TEXT NOT NULL DEFAULT '0',
			escrow_balance TEXT NOT NULL DEFAULT '0',
			total_rewards TEXT NOT NULL DEFAULT '0',
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE transactions (
			id TEXT PRIMARY KEY,
			sender_wallet_id TEXT,
			recipient_wallet_id TEXT NOT NULL,
			amount TEXT NOT NULL,
			type TEXT NOT NULL,
			status TEXT NOT NULL,
			escrow_id TEXT,
			description TEXT,
			reward_type TEXT,
			reference_id TEXT,
			created_at DATETIME
		);`,
		`CREATE TABLE escrow_accounts (
			id TEXT PRIMARY KEY,
			buyer_wallet_id TEXT NOT NULL,
			seller_wallet_id TEXT NOT NULL,
			amount TEXT NOT NULL,
			listing_id TEXT NOT NULL,
			status TEXT NOT NULL,
			dispute_reason TEXT,
			dispute_evidence TEXT,
			disputed_at DATETIME,
			completed_at DATETIME,
			created_at DATETIME,
			expires_at DATETIME NOT NULL
		);`,
	} {
		require.NoError(t, db.Exec(q).Error)
	}

	walletRepo := infraRepos.NewWalletRepository(db)
	escrowRepo := infraRepos.NewEscrowRepository(db)
	txRepo := infraRepos.NewTransactionRepository(db)
	uow := infraRepos.NewUnitOfWork(db)
	accessor := infraRepos.NewWalletAccessor(walletRepo, uow, time.Second)

	escrowUC := usecases.NewEscrowUsecase(walletRepo, escrowRepo, txRepo, accessor, uow, nil, time.Hour)
	transferUC := usecases.NewTransferUsecase(walletRepo, txRepo, accessor, escrowUC, nil)

	return &engine{
		db:         db,
		walletRepo: walletRepo,
		escrowRepo: escrowRepo,
		txRepo:     txRepo,
		escrow:     escrowUC,
		transfer:   transferUC,
	}
}

func (e *engine) seedWallet(t *testing.T, available string) *entities.Wallet {
	t.Helper()
	w := &entities.Wallet{
		ID:               uuid.New(),
		UserID:           uuid.New(),
		AvailableBalance: decimal.RequireFromString(available),
		EscrowBalance:    decimal.Zero,
		TotalRewards:     decimal.Zero,
	}
	require.NoError(t, e.walletRepo.Create(context.Background(), w))
	return w
}

func (e *engine) wallet(t *testing.T, id uuid.UUID) *entities.Wallet {
	t.Helper()
	w, err := e.walletRepo.GetByID(context.Background(), id)
	require.NoError(t, err)
	return w
}

func requireAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, got.Equal(decimal.RequireFromString(want)), "want %s got %s", want, got)
}

// totalValue sums available and escrow balances across wallets. Rewards mint
// value, so conservation checks compare this before and after a flow.
func (e *engine) totalValue(t *testing.T, ids ...uuid.UUID) decimal.Decimal {
	t.Helper()
	sum := decimal.Zero
	for _, id := range ids {
		w := e.wallet(t, id)
		sum = sum.Add(w.AvailableBalance).Add(w.EscrowBalance)
	}
	return sum
}
