package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/mini_banking_api/internal/apperrors"
	"github.com/SscSPs/mini_banking_api/internal/core/domain"
	portssvc "github.com/SscSPs/mini_banking_api/internal/core/ports/services"
	"github.com/SscSPs/mini_banking_api/internal/dto"
	"github.com/SscSPs/mini_banking_api/internal/handlers"
	"github.com/SscSPs/mini_banking_api/internal/middleware"
	"github.com/SscSPs/mini_banking_api/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTransferService struct {
	mock.Mock
}

func (m *MockTransferService) Transfer(ctx context.Context, cmd portssvc.TransferCommand) (*domain.Transaction, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

var _ portssvc.TransferSvc = (*MockTransferService)(nil)

func newTransferRouter(t *testing.T, svc portssvc.TransferSvc) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(testSecret, testIssuer))
	handlers.RegisterTransferRoutes(v1, svc, &utils.PosthogClientWrapper{})

	token, _, err := utils.GenerateJWT(1, testSecret, time.Hour, testIssuer)
	require.NoError(t, err)
	return r, token
}

func postTransfer(r *gin.Engine, token, key string, body map[string]any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	if key != "" {
		req.Header.Set(handlers.IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTransfer_Success(t *testing.T) {
	svc := new(MockTransferService)
	r, token := newTransferRouter(t, svc)

	txn := domain.NewTransferTransaction(1, 2, decimal.NewFromInt(100), "", time.Now())
	txn.ID = 55
	svc.On("Transfer", mock.Anything, mock.MatchedBy(func(cmd portssvc.TransferCommand) bool {
		return cmd.FromAccountID == 1 && cmd.ToAccountID == 2 &&
			cmd.Amount.Equal(decimal.NewFromInt(100)) &&
			cmd.Description == "rent" && cmd.IdempotencyKey == "req-1"
	})).Return(txn, nil).Once()

	w := postTransfer(r, token, "req-1", map[string]any{
		"fromAccountID": 1, "toAccountID": 2, "amount": "100", "description": "rent",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp dto.TransferResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Transfer completed successfully", resp.Message)
	assert.Equal(t, int64(55), resp.TransactionID)
	svc.AssertExpectations(t)
}

func TestTransfer_ErrorMapping(t *testing.T) {
	amount := decimal.NewFromInt(10)
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"same account", apperrors.NewLedgerError(apperrors.ErrSameAccountTransfer, "", amount, 1), http.StatusBadRequest, "SAME_ACCOUNT_TRANSFER"},
		{"invalid amount", apperrors.NewLedgerError(apperrors.ErrInvalidAmount, "", amount), http.StatusBadRequest, "INVALID_AMOUNT"},
		{"account not found", apperrors.NewLedgerError(apperrors.ErrAccountNotFound, "", decimal.Zero, 2), http.StatusNotFound, "ACCOUNT_NOT_FOUND"},
		{"not allowed", apperrors.NewLedgerError(apperrors.ErrTransferNotAllowed, "currency mismatch TRY -> USD", amount, 1, 2), http.StatusUnprocessableEntity, "TRANSFER_NOT_ALLOWED"},
		{"insufficient funds", apperrors.NewLedgerError(apperrors.ErrInsufficientFunds, "", amount, 1), http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS"},
		{"inactive", apperrors.NewLedgerError(apperrors.ErrInactiveAccount, "", amount, 1), http.StatusUnprocessableEntity, "INACTIVE_ACCOUNT"},
		{"conflict", apperrors.NewLedgerError(apperrors.ErrConcurrencyConflict, "", decimal.Zero, 1), http.StatusConflict, "CONCURRENCY_CONFLICT"},
		{"idempotency mismatch", apperrors.ErrValidation, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"infrastructure", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(MockTransferService)
			r, token := newTransferRouter(t, svc)
			svc.On("Transfer", mock.Anything, mock.Anything).Return(nil, tc.err).Once()

			w := postTransfer(r, token, "", map[string]any{"fromAccountID": 1, "toAccountID": 2, "amount": "10"})

			assert.Equal(t, tc.status, w.Code)
			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.code, resp.Code)
			if tc.status == http.StatusInternalServerError {
				assert.NotContains(t, resp.Error, "connection reset")
			}
		})
	}
}

func TestTransfer_BindingErrors(t *testing.T) {
	svc := new(MockTransferService)
	r, token := newTransferRouter(t, svc)

	w := postTransfer(r, token, "", map[string]any{"toAccountID": 2, "amount": "10"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postTransfer(r, token, "", map[string]any{"fromAccountID": 1, "toAccountID": 2, "amount": "not-a-number"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything)
}
