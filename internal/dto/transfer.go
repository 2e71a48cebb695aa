package dto

import "github.com/shopspring/decimal"

// TransferRequest moves money between two accounts. The optional
// Idempotency-Key header makes retries of the same request safe.
type TransferRequest struct {
	FromAccountID int64           `json:"fromAccountID" binding:"required,gt=0"`
	ToAccountID   int64           `json:"toAccountID" binding:"required,gt=0"`
	Amount        decimal.Decimal `json:"amount" swaggertype:"string" example:"100.00"`
	Description   string          `json:"description" binding:"max=500"`
}

// TransferResponse reports a completed transfer.
type TransferResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	TransactionID int64  `json:"transactionID"`
}
