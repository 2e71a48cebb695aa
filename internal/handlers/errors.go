package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/mini_banking_api/internal/apperrors"
	"github.com/SscSPs/mini_banking_api/internal/dto"
	"github.com/SscSPs/mini_banking_api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// errorKinds maps failure kinds to HTTP statuses. Order matters: the first
// kind the error matches wins, so ErrAccountNotFound precedes ErrNotFound.
var errorKinds = []struct {
	kind   error
	status int
	code   string
}{
	{apperrors.ErrInvalidAmount, http.StatusBadRequest, "INVALID_AMOUNT"},
	{apperrors.ErrSameAccountTransfer, http.StatusBadRequest, "SAME_ACCOUNT_TRANSFER"},
	{apperrors.ErrInvalidCustomer, http.StatusBadRequest, "INVALID_CUSTOMER"},
	{apperrors.ErrValidation, http.StatusBadRequest, "VALIDATION_ERROR"},
	{apperrors.ErrAccountNotFound, http.StatusNotFound, "ACCOUNT_NOT_FOUND"},
	{apperrors.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{apperrors.ErrTransferNotAllowed, http.StatusUnprocessableEntity, "TRANSFER_NOT_ALLOWED"},
	{apperrors.ErrInsufficientFunds, http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS"},
	{apperrors.ErrInactiveAccount, http.StatusUnprocessableEntity, "INACTIVE_ACCOUNT"},
	{apperrors.ErrConcurrencyConflict, http.StatusConflict, "CONCURRENCY_CONFLICT"},
	{apperrors.ErrDuplicate, http.StatusConflict, "DUPLICATE"},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
}

// errorResponse classifies err and builds the status and body to send.
func errorResponse(err error) (int, dto.ErrorResponse) {
	for _, k := range errorKinds {
		if errors.Is(err, k.kind) {
			resp := dto.ErrorResponse{Error: err.Error(), Code: k.code}
			var ledgerErr *apperrors.LedgerError
			if errors.As(err, &ledgerErr) {
				resp.AccountIDs = ledgerErr.AccountIDs
			}
			return k.status, resp
		}
	}
	return http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error", Code: "INTERNAL"}
}

// respondError logs err at a level matching its status and writes the error body.
func respondError(c *gin.Context, err error, msg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		logger.Error(msg, slog.String("error", err.Error()))
	} else {
		logger.Warn(msg, slog.String("error", err.Error()), slog.String("code", body.Code))
	}
	c.JSON(status, body)
}

func respondBadRequest(c *gin.Context, msg string, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn(msg, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msg + ": " + err.Error(), Code: "VALIDATION_ERROR"})
}
