package response

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	domainerrors "spay.backend/internal/domain/errors"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response. Domain sentinels map to their stable codes;
// anything unrecognized becomes an opaque internal error so storage-level
// strings never reach callers.
func Error(c *gin.Context, err error) {
	var appErr *domainerrors.AppError
	if !errors.As(err, &appErr) {
		appErr = fromSentinel(err)
	}

	c.JSON(appErr.Status, gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}

func fromSentinel(err error) *domainerrors.AppError {
	switch {
	case errors.Is(err, domainerrors.ErrNotFound):
		return domainerrors.NotFound("resource not found")
	case errors.Is(err, domainerrors.ErrInsufficientFunds):
		return domainerrors.InsufficientFunds("insufficient funds")
	case errors.Is(err, domainerrors.ErrInvalidState):
		return domainerrors.InvalidState("transition not legal from current status")
	case errors.Is(err, domainerrors.ErrUnauthorized):
		return domainerrors.Forbidden("not a party to this resource")
	case errors.Is(err, domainerrors.ErrConflict):
		return domainerrors.Conflict("conflicting write")
	case errors.Is(err, domainerrors.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return domainerrors.Timeout("operation timed out")
	case errors.Is(err, domainerrors.ErrStoreUnavailable):
		return domainerrors.StoreUnavailable(err)
	case errors.Is(err, domainerrors.ErrInvalidInput), errors.Is(err, domainerrors.ErrBadRequest):
		return domainerrors.BadRequest("invalid input")
	}
	return domainerrors.InternalError(err)
}

// ErrorWithStatus sends an error response with a specific status and code.
func ErrorWithStatus(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"code":    code,
		"message": message,
	})
}
