package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	domainerrors "spay.backend/internal/domain/errors"
)

// translateError maps storage-level failures onto the domain taxonomy so that
// raw driver error strings never reach callers.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domainerrors.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domainerrors.ErrConflict
	case errors.Is(err, context.DeadlineExceeded):
		return domainerrors.ErrTimeout
	case errors.Is(err, context.Canceled):
		return err
	}

	// The sqlite driver used in tests does not translate constraint errors.
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key") {
		return domainerrors.ErrConflict
	}

	return fmt.Errorf("%w: %v", domainerrors.ErrStoreUnavailable, err)
}
