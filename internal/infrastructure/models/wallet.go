package models

import (
	"time"

	"github.com/google/uuid"
)

type Wallet struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	AvailableBalance string    `gorm:"type:varchar(100);not null;default:'0'"` // decimal string
	EscrowBalance    string    `gorm:"type:varchar(100);not null;default:'0'"`
	TotalRewards     string    `gorm:"type:varchar(100);not null;default:'0'"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
