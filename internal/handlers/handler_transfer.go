package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/mini_banking_api/internal/apperrors"
	portssvc "github.com/SscSPs/mini_banking_api/internal/core/ports/services"
	"github.com/SscSPs/mini_banking_api/internal/dto"
	"github.com/SscSPs/mini_banking_api/internal/middleware"
	"github.com/SscSPs/mini_banking_api/internal/utils"
	"github.com/gin-gonic/gin"
)

// IdempotencyKeyHeader carries the caller's key for safely retried transfers.
const IdempotencyKeyHeader = "Idempotency-Key"

const transferSucceededMessage = "Transfer completed successfully"

type transferHandler struct {
	transferService portssvc.TransferSvc
	posthogClient   *utils.PosthogClientWrapper
}

// RegisterTransferRoutes registers the transfer endpoint.
func RegisterTransferRoutes(rg *gin.RouterGroup, transferService portssvc.TransferSvc, posthogClient *utils.PosthogClientWrapper) {
	registerValidators()
	h := &transferHandler{transferService: transferService, posthogClient: posthogClient}
	rg.POST("/transfers", h.transfer)
}

// transfer godoc
// @Summary Transfer money between accounts
// @Description Debits the source and credits the destination atomically. Send an Idempotency-Key header to make retries safe.
// @Tags transfers
// @Accept  json
// @Produce  json
// @Param   Idempotency-Key header string false "Caller-chosen key, at most 100 characters"
// @Param   transfer body dto.TransferRequest true "Transfer details"
// @Success 200 {object} dto.TransferResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid amount, same account or bad input"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 409 {object} dto.ErrorResponse "Concurrent modification"
// @Failure 422 {object} dto.ErrorResponse "Transfer not allowed or insufficient funds"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /transfers [post]
func (h *transferHandler) transfer(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request format", err)
		return
	}

	cmd := portssvc.TransferCommand{
		FromAccountID:  req.FromAccountID,
		ToAccountID:    req.ToAccountID,
		Amount:         req.Amount,
		Description:    req.Description,
		IdempotencyKey: c.GetHeader(IdempotencyKeyHeader),
	}
	txn, err := h.transferService.Transfer(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, err, "Transfer failed")
		h.track(c, "transfer_failed", req, err)
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Transfer request served", slog.Int64("transaction_id", txn.ID))
	h.track(c, "transfer_completed", req, nil)
	c.JSON(http.StatusOK, dto.TransferResponse{
		Success:       true,
		Message:       transferSucceededMessage,
		TransactionID: txn.ID,
	})
}

func (h *transferHandler) track(c *gin.Context, event string, req dto.TransferRequest, err error) {
	props := map[string]any{
		"from_account_id": req.FromAccountID,
		"to_account_id":   req.ToAccountID,
		"amount":          req.Amount.String(),
	}
	if err != nil {
		_, body := errorResponse(err)
		props["error_code"] = body.Code
		var ledgerErr *apperrors.LedgerError
		if errors.As(err, &ledgerErr) && ledgerErr.Reason != "" {
			props["reason"] = ledgerErr.Reason
		}
	}
	middleware.PosthogEvent(c, h.posthogClient, event, props)
}
