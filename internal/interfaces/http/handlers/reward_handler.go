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

type RewardService interface {
	MintReward(ctx context.Context, userID uuid.UUID, rewardType, amount, referenceID string) (*entities.Transaction, error)
}

// RewardHandler handles reward endpoints
type RewardHandler struct {
	rewardUsecase RewardService
}

// NewRewardHandler creates a new reward handler
func NewRewardHandler(rewardUsecase RewardService) *RewardHandler {
	return &RewardHandler{rewardUsecase: rewardUsecase}
}

// ProcessReward mints a platform-funded reward into the caller's wallet
// POST /api/v1/rewards
func (h *RewardHandler) ProcessReward(c *gin.Context) {
	var input entities.ProcessRewardInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	tx, err := h.rewardUsecase.MintReward(c.Request.Context(), userID, input.RewardType, input.Amount, input.ReferenceID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"transactionId": tx.ID, "transaction": tx})
}
