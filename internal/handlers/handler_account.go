package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/SscSPs/mini_banking_api/internal/core/domain"
	portssvc "github.com/SscSPs/mini_banking_api/internal/core/ports/services"
	"github.com/SscSPs/mini_banking_api/internal/dto"
	"github.com/SscSPs/mini_banking_api/internal/middleware"
	"github.com/SscSPs/mini_banking_api/internal/utils"
	"github.com/SscSPs/mini_banking_api/internal/utils/mapping"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
	}
}

// RegisterAccountRoutes registers routes related to accounts and their customers.
func RegisterAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	registerValidators()
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.getAccountByNumber)
		accounts.GET("/:accountID", h.getAccount)
		accounts.GET("/:accountID/balance", h.getBalance)
		accounts.GET("/:accountID/transactions", h.listTransactions)
		accounts.POST("/:accountID/deposit", h.deposit)
		accounts.POST("/:accountID/withdraw", h.withdraw)
		accounts.DELETE("/:accountID", h.deactivateAccount)
	}
	rg.GET("/customers/:customerID/accounts", h.listCustomerAccounts)
	rg.GET("/transactions/:transactionID", h.getTransaction)
}

// createAccount godoc
// @Summary Open a new account
// @Description Opens an active, zero-balance account for an existing customer
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.CreateAccountResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input or unknown customer"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to create account"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request format", err)
		return
	}
	currency, err := domain.ParseCurrency(req.Currency)
	if err != nil {
		respondError(c, err, "Invalid currency for CreateAccount")
		return
	}

	logger.Info("Received request to create account", slog.Int64("customer_id", req.CustomerID), slog.String("currency", currency.String()))

	account, err := h.accountService.CreateAccount(c.Request.Context(), req.CustomerID, currency)
	if err != nil {
		respondError(c, err, "Failed to create account")
		return
	}

	logger.Info("Account created successfully", slog.Int64("account_id", account.ID), slog.String("account_number", account.AccountNumber))
	c.JSON(http.StatusCreated, dto.CreateAccountResponse{AccountID: account.ID, AccountNumber: account.AccountNumber})
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   accountID path int true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve account"
// @Security BearerAuth
// @Router /accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	accountID, ok := int64Param(c, "accountID")
	if !ok {
		return
	}

	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err, "Failed to get account")
		return
	}
	c.JSON(http.StatusOK, mapping.ToAccountResponse(*account))
}

// getAccountByNumber godoc
// @Summary Find an account by account number
// @Tags accounts
// @Produce  json
// @Param   number query string true "Account number, e.g. TR000000000001"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse "Malformed account number"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) getAccountByNumber(c *gin.Context) {
	var params dto.AccountLookupParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, "Invalid query parameters", err)
		return
	}

	account, err := h.accountService.GetAccountByNumber(c.Request.Context(), params.Number)
	if err != nil {
		respondError(c, err, "Failed to find account by number")
		return
	}
	c.JSON(http.StatusOK, mapping.ToAccountResponse(*account))
}

// getBalance godoc
// @Summary Get an account balance
// @Tags accounts
// @Produce  json
// @Param   accountID path int true "Account ID"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountID}/balance [get]
func (h *accountHandler) getBalance(c *gin.Context) {
	accountID, ok := int64Param(c, "accountID")
	if !ok {
		return
	}

	balance, err := h.accountService.GetBalance(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err, "Failed to get balance")
		return
	}
	c.JSON(http.StatusOK, dto.AccountBalanceResponse{
		AccountID: accountID,
		Balance:   utils.FormatAmount(balance),
	})
}

// listTransactions godoc
// @Summary List an account's transactions
// @Description Newest first. Pass the returned nextToken to fetch the following page.
// @Tags accounts
// @Produce  json
// @Param   accountID path int true "Account ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid paging parameters"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountID}/transactions [get]
func (h *accountHandler) listTransactions(c *gin.Context) {
	accountID, ok := int64Param(c, "accountID")
	if !ok {
		return
	}
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, "Invalid query parameters", err)
		return
	}

	txns, next, err := h.accountService.ListTransactions(c.Request.Context(), accountID, params.Limit, params.NextToken)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	resp, err := mapping.ToAccountHistoryResponse(accountID, txns, next)
	if err != nil {
		respondError(c, err, "Failed to render transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// listCustomerAccounts godoc
// @Summary List a customer's accounts
// @Tags accounts
// @Produce  json
// @Param   customerID path int true "Customer ID"
// @Success 200 {object} dto.ListAccountsResponse
// @Security BearerAuth
// @Router /customers/{customerID}/accounts [get]
func (h *accountHandler) listCustomerAccounts(c *gin.Context) {
	customerID, ok := int64Param(c, "customerID")
	if !ok {
		return
	}

	accounts, err := h.accountService.ListAccountsByCustomer(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, mapping.ToListAccountsResponse(accounts))
}

// getTransaction godoc
// @Summary Get a ledger entry by ID
// @Tags transactions
// @Produce  json
// @Param   transactionID path int true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} dto.ErrorResponse "Transaction not found"
// @Security BearerAuth
// @Router /transactions/{transactionID} [get]
func (h *accountHandler) getTransaction(c *gin.Context) {
	transactionID, ok := int64Param(c, "transactionID")
	if !ok {
		return
	}

	txn, err := h.accountService.GetTransaction(c.Request.Context(), transactionID)
	if err != nil {
		respondError(c, err, "Failed to get transaction")
		return
	}
	c.JSON(http.StatusOK, mapping.ToTransactionResponse(*txn))
}

// deposit godoc
// @Summary Deposit into an account
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   accountID path int true "Account ID"
// @Param   body body dto.CashRequest true "Amount and optional description"
// @Success 200 {object} dto.CashResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid amount"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 409 {object} dto.ErrorResponse "Concurrent modification"
// @Failure 422 {object} dto.ErrorResponse "Account is not active"
// @Security BearerAuth
// @Router /accounts/{accountID}/deposit [post]
func (h *accountHandler) deposit(c *gin.Context) {
	h.cash(c, h.accountService.Deposit, "deposit")
}

// withdraw godoc
// @Summary Withdraw from an account
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   accountID path int true "Account ID"
// @Param   body body dto.CashRequest true "Amount and optional description"
// @Success 200 {object} dto.CashResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid amount"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 409 {object} dto.ErrorResponse "Concurrent modification"
// @Failure 422 {object} dto.ErrorResponse "Inactive account or insufficient funds"
// @Security BearerAuth
// @Router /accounts/{accountID}/withdraw [post]
func (h *accountHandler) withdraw(c *gin.Context) {
	h.cash(c, h.accountService.Withdraw, "withdraw")
}

type cashOp func(ctx context.Context, accountID int64, amount decimal.Decimal, description string) (*domain.Transaction, error)

func (h *accountHandler) cash(c *gin.Context, op cashOp, kind string) {
	accountID, ok := int64Param(c, "accountID")
	if !ok {
		return
	}
	var req dto.CashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request format", err)
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(
		slog.String("operation", kind),
		slog.Int64("account_id", accountID),
		slog.String("amount", req.Amount.String()),
	)
	ctx := middleware.WithLogger(c.Request.Context(), logger)

	txn, err := op(ctx, accountID, req.Amount, req.Description)
	if err != nil {
		respondError(c, err, "Failed to "+kind)
		return
	}
	balance, err := h.accountService.GetBalance(ctx, accountID)
	if err != nil {
		respondError(c, err, "Failed to read balance after "+kind)
		return
	}

	logger.Info("Cash operation completed", slog.Int64("transaction_id", txn.ID))
	c.JSON(http.StatusOK, dto.CashResponse{
		TransactionID: txn.ID,
		AccountID:     accountID,
		Balance:       utils.FormatAmount(balance),
	})
}

// deactivateAccount godoc
// @Summary Deactivate an account
// @Description An inactive account rejects deposits, withdrawals and transfers.
// @Tags accounts
// @Param   accountID path int true "Account ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 422 {object} dto.ErrorResponse "Account already inactive"
// @Security BearerAuth
// @Router /accounts/{accountID} [delete]
func (h *accountHandler) deactivateAccount(c *gin.Context) {
	accountID, ok := int64Param(c, "accountID")
	if !ok {
		return
	}

	if err := h.accountService.DeactivateAccount(c.Request.Context(), accountID); err != nil {
		respondError(c, err, "Failed to deactivate account")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Account deactivated", slog.Int64("account_id", accountID))
	c.Status(http.StatusNoContent)
}
