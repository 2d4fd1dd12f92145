package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"spay.backend/internal/domain/entities"
	domainerrors "spay.backend/internal/domain/errors"
	"spay.backend/internal/interfaces/http/middleware"
)

type transferServiceStub struct {
	resp *entities.InitiateTransferResponse
	tx   *entities.Transaction
	txs  []*entities.Transaction
	err  error
}

func (s *transferServiceStub) InitiateTransfer(context.Context, uuid.UUID, *entities.InitiateTransferInput) (*entities.InitiateTransferResponse, error) {
	return s.resp, s.err
}
func (s *transferServiceStub) GetTransaction(context.Context, uuid.UUID, uuid.UUID) (*entities.Transaction, error) {
	return s.tx, s.err
}
func (s *transferServiceStub) ListTransactions(context.Context, uuid.UUID, int, int) ([]*entities.Transaction, int, error) {
	return s.txs, len(s.txs), s.err
}

type escrowServiceStub struct {
	escrow  *entities.EscrowAccount
	escrows []*entities.EscrowAccount
	err     error
}

func (s *escrowServiceStub) Release(context.Context, uuid.UUID, entities.ReleaseOutcome, uuid.UUID) (*entities.EscrowAccount, error) {
	return s.escrow, s.err
}
func (s *escrowServiceStub) Dispute(context.Context, uuid.UUID, string, string, uuid.UUID) (*entities.EscrowAccount, error) {
	return s.escrow, s.err
}
func (s *escrowServiceStub) GetByID(context.Context, uuid.UUID, uuid.UUID) (*entities.EscrowAccount, error) {
	return s.escrow, s.err
}
func (s *escrowServiceStub) ListByUser(context.Context, uuid.UUID, int, int) ([]*entities.EscrowAccount, int, error) {
	return s.escrows, len(s.escrows), s.err
}

type rewardServiceStub struct {
	tx  *entities.Transaction
	err error
}

func (s *rewardServiceStub) MintReward(context.Context, uuid.UUID, string, string, string) (*entities.Transaction, error) {
	return s.tx, s.err
}

type walletServiceStub struct {
	wallet *entities.Wallet
	err    error
}

func (s *walletServiceStub) GetWallet(context.Context, uuid.UUID) (*entities.Wallet, error) {
	return s.wallet, s.err
}

// authedRouter injects an authenticated principal the way the auth middleware
// would.
func authedRouter(userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	})
	return r
}

func TestInitiateTransfer_Success(t *testing.T) {
	stub := &transferServiceStub{resp: &entities.InitiateTransferResponse{
		Transaction: &entities.Transaction{ID: uuid.New(), Type: entities.TransactionTypeDirect},
	}}
	r := authedRouter(uuid.New())
	r.POST("/transfers", NewTransferHandler(stub).InitiateTransfer)

	body := `{"recipientId":"` + uuid.NewString() + `","amount":"10","transferType":"direct"}`
	req := httptest.NewRequest(http.MethodPost, "/transfers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), stub.resp.Transaction.ID.String())
}

func TestInitiateTransfer_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"insufficient funds", domainerrors.ErrInsufficientFunds, http.StatusUnprocessableEntity},
		{"not found", domainerrors.ErrNotFound, http.StatusNotFound},
		{"invalid state", domainerrors.ErrInvalidState, http.StatusConflict},
		{"unauthorized", domainerrors.ErrUnauthorized, http.StatusForbidden},
		{"invalid input", domainerrors.ErrInvalidInput, http.StatusBadRequest},
		{"timeout", domainerrors.ErrTimeout, http.StatusGatewayTimeout},
		{"store down", domainerrors.ErrStoreUnavailable, http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := authedRouter(uuid.New())
			r.POST("/transfers", NewTransferHandler(&transferServiceStub{err: tc.err}).InitiateTransfer)

			body := `{"recipientId":"` + uuid.NewString() + `","amount":"10","transferType":"direct"}`
			req := httptest.NewRequest(http.MethodPost, "/transfers", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tc.code, w.Code, w.Body.String())
		})
	}
}

func TestGetTransaction_Success(t *testing.T) {
	tx := &entities.Transaction{ID: uuid.New(), Type: entities.TransactionTypeReward}
	r := authedRouter(uuid.New())
	r.GET("/transfers/:id", NewTransferHandler(&transferServiceStub{tx: tx}).GetTransaction)

	req := httptest.NewRequest(http.MethodGet, "/transfers/"+tx.ID.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), tx.ID.String())
}

func TestListTransactions_Pagination(t *testing.T) {
	stub := &transferServiceStub{txs: []*entities.Transaction{{ID: uuid.New()}, {ID: uuid.New()}}}
	r := authedRouter(uuid.New())
	r.GET("/transfers", NewTransferHandler(stub).ListTransactions)

	req := httptest.NewRequest(http.MethodGet, "/transfers?page=1&limit=2", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		Transactions []json.RawMessage      `json:"transactions"`
		Pagination   map[string]interface{} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.Len(t, payload.Transactions, 2)
	require.EqualValues(t, 2, payload.Pagination["totalCount"])
}

func TestReleaseEscrow_Success(t *testing.T) {
	stub := &escrowServiceStub{escrow: &entities.EscrowAccount{ID: uuid.New(), Status: entities.EscrowStatusCompleted}}
	r := authedRouter(uuid.New())
	r.POST("/escrows/:id/release", NewEscrowHandler(stub).ReleaseEscrow)

	req := httptest.NewRequest(http.MethodPost, "/escrows/"+uuid.NewString()+"/release", strings.NewReader(`{"releaseType":"complete"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), string(entities.EscrowStatusCompleted))
}

func TestReleaseEscrow_AlreadyResolved(t *testing.T) {
	r := authedRouter(uuid.New())
	r.POST("/escrows/:id/release", NewEscrowHandler(&escrowServiceStub{err: domainerrors.ErrInvalidState}).ReleaseEscrow)

	req := httptest.NewRequest(http.MethodPost, "/escrows/"+uuid.NewString()+"/release", strings.NewReader(`{"releaseType":"cancel"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "ERR_INVALID_STATE")
}

func TestDisputeEscrow_Success(t *testing.T) {
	stub := &escrowServiceStub{escrow: &entities.EscrowAccount{ID: uuid.New(), Status: entities.EscrowStatusDisputed}}
	r := authedRouter(uuid.New())
	r.POST("/escrows/:id/dispute", NewEscrowHandler(stub).DisputeEscrow)

	req := httptest.NewRequest(http.MethodPost, "/escrows/"+uuid.NewString()+"/dispute", strings.NewReader(`{"reason":"never arrived","evidence":"link"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), string(entities.EscrowStatusDisputed))
}

func TestListEscrows_Success(t *testing.T) {
	stub := &escrowServiceStub{escrows: []*entities.EscrowAccount{{ID: uuid.New(), Status: entities.EscrowStatusPending}}}
	r := authedRouter(uuid.New())
	r.GET("/escrows", NewEscrowHandler(stub).ListEscrows)

	req := httptest.NewRequest(http.MethodGet, "/escrows", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), stub.escrows[0].ID.String())
}

func TestProcessReward_Success(t *testing.T) {
	tx := &entities.Transaction{ID: uuid.New(), Type: entities.TransactionTypeReward}
	r := authedRouter(uuid.New())
	r.POST("/rewards", NewRewardHandler(&rewardServiceStub{tx: tx}).ProcessReward)

	body := `{"rewardType":"referral_bonus","amount":"50","referenceId":"ref-1"}`
	req := httptest.NewRequest(http.MethodPost, "/rewards", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), tx.ID.String())
}

func TestGetBalance_Success(t *testing.T) {
	wallet := &entities.Wallet{
		ID:               uuid.New(),
		UserID:           uuid.New(),
		AvailableBalance: decimal.RequireFromString("12.5"),
		EscrowBalance:    decimal.RequireFromString("3"),
		TotalRewards:     decimal.RequireFromString("0.5"),
	}
	r := authedRouter(wallet.UserID)
	r.GET("/wallet", NewWalletHandler(&walletServiceStub{wallet: wallet}).GetBalance)

	req := httptest.NewRequest(http.MethodGet, "/wallet", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"12.5"`)
	require.Contains(t, w.Body.String(), `"15.5"`)
}
