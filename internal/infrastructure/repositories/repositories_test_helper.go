package repositories

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
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createWalletTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE wallets (
		id TEXT PRIMARY KEY,
		user_id TEXT UNIQUE NOT NULL,
		available_balance TEXT NOT NULL DEFAULT '0',
		escrow_balance TEXT NOT NULL DEFAULT '0',
		total_rewards TEXT NOT NULL DEFAULT '0',
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createTransactionTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE transactions (
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
	);`)
}

func createEscrowTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE escrow_accounts (
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
	);`)
}

func createAllTables(t *testing.T, db *gorm.DB) {
	createWalletTable(t, db)
	createTransactionTable(t, db)
	createEscrowTable(t, db)
}

func seedWallet(t *testing.T, db *gorm.DB, available string) *entities.Wallet {
	t.Helper()
	w := &entities.Wallet{
		ID:               uuid.New(),
		UserID:           uuid.New(),
		AvailableBalance: decimal.RequireFromString(available),
		EscrowBalance:    decimal.Zero,
		TotalRewards:     decimal.Zero,
	}
	repo := NewWalletRepository(db)
	require.NoError(t, repo.Create(context.Background(), w))
	return w
}
