package utils

import (
	"github.com/google/uuid"
)

// GenerateUUIDv7 generates a new UUID v7. Time-ordered ids keep the ledger's
// primary key index append-friendly.
func GenerateUUIDv7() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}
