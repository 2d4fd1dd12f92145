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

type TransferService interface {
	InitiateTransfer(ctx context.Context, senderUserID uuid.UUID, input *entities.InitiateTransferInput) (*entities.InitiateTransferResponse, error)
	GetTransaction(ctx context.Context, id, actorUserID uuid.UUID) (*entities.Transaction, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Transaction, int, error)
}

// TransferHandler handles transfer endpoints
type TransferHandler struct {
	transferUsecase TransferService
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(transferUsecase TransferService) *TransferHandler {
	return &TransferHandler{transferUsecase: transferUsecase}
}

// InitiateTransfer initiates a direct or escrow transfer
// POST /api/v1/transfers
func (h *TransferHandler) InitiateTransfer(c *gin.Context) {
	var input entities.InitiateTransferInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	result, err := h.transferUsecase.InitiateTransfer(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// GetTransaction gets a ledger entry by ID
// GET /api/v1/transfers/:id
func (h *TransferHandler) GetTransaction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid transaction ID"))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	tx, err := h.transferUsecase.GetTransaction(c.Request.Context(), id, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, tx)
}

// ListTransactions lists the caller's ledger history
// GET /api/v1/transfers?page=1&limit=50
func (h *TransferHandler) ListTransactions(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	params := utils.GetPaginationParams(page, limit)

	txs, total, err := h.transferUsecase.ListTransactions(c.Request.Context(), userID, params.Limit, params.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"transactions": txs,
		"pagination":   utils.CalculateMeta(int64(total), params.Page, params.Limit),
	})
}
