package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	domainerrors "spay.backend/internal/domain/errors"
)

func TestTranslateError(t *testing.T) {
	require.NoError(t, translateError(nil))

	require.ErrorIs(t, translateError(gorm.ErrRecordNotFound), domainerrors.ErrNotFound)
	require.ErrorIs(t, translateError(gorm.ErrDuplicatedKey), domainerrors.ErrConflict)
	require.ErrorIs(t, translateError(context.DeadlineExceeded), domainerrors.ErrTimeout)
	require.ErrorIs(t, translateError(context.Canceled), context.Canceled)

	require.ErrorIs(t, translateError(errors.New("UNIQUE constraint failed: wallets.user_id")), domainerrors.ErrConflict)
	require.ErrorIs(t, translateError(errors.New(`pq: duplicate key value violates unique constraint "wallets_pkey"`)), domainerrors.ErrConflict)

	err := translateError(errors.New("dial tcp: connection refused"))
	require.ErrorIs(t, err, domainerrors.ErrStoreUnavailable)
	require.Contains(t, err.Error(), "connection refused")
}
