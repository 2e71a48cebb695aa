package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to open a new account.
type CreateAccountRequest struct {
	CustomerID int64  `json:"customerID" binding:"required,gt=0"`
	Currency   string `json:"currency" binding:"required,currency"`
}

// CreateAccountResponse is returned after an account is opened.
type CreateAccountResponse struct {
	AccountID     int64  `json:"accountID"`
	AccountNumber string `json:"accountNumber"`
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID     int64      `json:"accountID"`
	AccountNumber string     `json:"accountNumber"`
	CustomerID    int64      `json:"customerID"`
	Balance       string     `json:"balance" example:"150.00"`
	Currency      string     `json:"currency" example:"TRY"`
	IsActive      bool       `json:"isActive"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

// ListAccountsResponse wraps a customer's accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// AccountBalanceResponse defines the data returned for an account balance query.
type AccountBalanceResponse struct {
	AccountID int64  `json:"accountID"`
	Balance   string `json:"balance" example:"150.00"`
}

// CashRequest is the body of a deposit or withdrawal.
type CashRequest struct {
	Amount      decimal.Decimal `json:"amount" swaggertype:"string" example:"25.50"`
	Description string          `json:"description" binding:"max=500"`
}

// AccountLookupParams finds an account by its account number.
type AccountLookupParams struct {
	Number string `form:"number" binding:"required"`
}

// ListTransactionsParams defines query parameters for an account's history.
type ListTransactionsParams struct {
	Limit     int    `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken string `form:"nextToken"`
}
