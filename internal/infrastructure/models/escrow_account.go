package models

import (
	"time"

	"github.com/google/uuid"
)

type EscrowAccount struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	BuyerWalletID   uuid.UUID `gorm:"type:uuid;not null;index"`
	SellerWalletID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Amount          string    `gorm:"type:varchar(100);not null"` // decimal string
	ListingID       string    `gorm:"type:varchar(255);not null"`
	Status          string    `gorm:"type:varchar(20);not null;index"`
	DisputeReason   *string   `gorm:"type:varchar(1000)"`
	DisputeEvidence *string   `gorm:"type:text"`
	DisputedAt      *time.Time
	CompletedAt     *time.Time
	CreatedAt       time.Time
	ExpiresAt       time.Time `gorm:"not null;index"`
}
