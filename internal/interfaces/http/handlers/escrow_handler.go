package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"spay.backend/internal/domain/entities"
	domainerrors "spay.backend/internal/domain/errors"
	"spay.backend/internal/interfaces/http/middleware"
	"spay.backend/internal/interfaces/http/response"
	"spay.backend/pkg/utils"
)

type EscrowService interface {
	Release(ctx context.Context, escrowID uuid.UUID, outcome entities.ReleaseOutcome, actorUserID uuid.UUID) (*entities.EscrowAccount, error)
	Dispute(ctx context.Context, escrowID uuid.UUID, reason, evidence string, actorUserID uuid.UUID) (*entities.EscrowAccount, error)
	GetByID(ctx context.Context, escrowID, actorUserID uuid.UUID) (*entities.EscrowAccount, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.EscrowAccount, int, error)
}

// EscrowHandler handles escrow endpoints
type EscrowHandler struct {
	escrowUsecase EscrowService
}

// NewEscrowHandler creates a new escrow handler
func NewEscrowHandler(escrowUsecase EscrowService) *EscrowHandler {
	return &EscrowHandler{escrowUsecase: escrowUsecase}
}

// ReleaseEscrow resolves a pending escrow to complete or cancel
// POST /api/v1/escrows/:id/release
func (h *EscrowHandler) ReleaseEscrow(c *gin.Context) {
	escrowID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid escrow ID"))
		return
	}

	var input entities.ReleaseEscrowInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	escrow, err := h.escrowUsecase.Release(c.Request.Context(), escrowID, input.ReleaseType, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": escrow.Status})
}

// DisputeEscrow files a dispute on a pending escrow
// POST /api/v1/escrows/:id/dispute
func (h *EscrowHandler) DisputeEscrow(c *gin.Context) {
	escrowID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid escrow ID"))
		return
	}

	var input entities.DisputeEscrowInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	escrow, err := h.escrowUsecase.Dispute(c.Request.Context(), escrowID, input.Reason, input.Evidence, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": escrow.Status})
}

// GetEscrow gets an escrow account by ID
// GET /api/v1/escrows/:id
func (h *EscrowHandler) GetEscrow(c *gin.Context) {
	escrowID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid escrow ID"))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	escrow, err := h.escrowUsecase.GetByID(c.Request.Context(), escrowID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, escrow)
}

// ListEscrows lists escrows the caller is a party to
// GET /api/v1/escrows?page=1&limit=50
func (h *EscrowHandler) ListEscrows(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	params := utils.GetPaginationParams(page, limit)

	escrows, total, err := h.escrowUsecase.ListByUser(c.Request.Context(), userID, params.Limit, params.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"escrows":    escrows,
		"pagination": utils.CalculateMeta(int64(total), params.Page, params.Limit),
	})
}
