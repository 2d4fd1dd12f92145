package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"spay.backend/internal/domain/entities"
	domainerrors "spay.backend/internal/domain/errors"
	"spay.backend/internal/interfaces/http/middleware"
	"spay.backend/internal/interfaces/http/response"
)

type WalletService interface {
	GetWallet(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error)
}

// WalletHandler handles wallet endpoints
type WalletHandler struct {
	walletUsecase WalletService
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(walletUsecase WalletService) *WalletHandler {
	return &WalletHandler{walletUsecase: walletUsecase}
}

// GetBalance returns the caller's wallet balances
// GET /api/v1/wallet
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	wallet, err := h.walletUsecase.GetWallet(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, wallet.ToBalanceResponse())
}
