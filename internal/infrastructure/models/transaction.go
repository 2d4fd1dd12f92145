package models

import (
	"time"

	"github.com/google/uuid"
)

type Transaction struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	SenderWalletID    *uuid.UUID `gorm:"type:uuid;index"` // Nullable, reward mints have no sender
	RecipientWalletID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Amount            string     `gorm:"type:varchar(100);not null"` // decimal string
	Type              string     `gorm:"type:varchar(20);not null;index"`
	Status            string     `gorm:"type:varchar(20);not null;index"`
	EscrowID          *uuid.UUID `gorm:"type:uuid;index"`
	Description       *string    `gorm:"type:varchar(500)"`
	RewardType        *string    `gorm:"type:varchar(50)"`
	ReferenceID       *string    `gorm:"type:varchar(255)"`
	CreatedAt         time.Time
}
