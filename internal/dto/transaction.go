package dto

import "time"

// TransactionResponse defines the data returned for a ledger entry.
type TransactionResponse struct {
	TransactionID int64     `json:"transactionID"`
	FromAccountID int64     `json:"fromAccountID"`
	ToAccountID   *int64    `json:"toAccountID,omitempty"`
	Amount        string    `json:"amount" example:"25.50"`
	SignedAmount  string    `json:"signedAmount,omitempty" example:"-25.50"` // effect on the listed account
	Type          string    `json:"type" example:"TRANSFER"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ListTransactionsResponse is one page of an account's history.
type ListTransactionsResponse struct {
	Transactions  []TransactionResponse `json:"transactions"`
	PageNetChange string                `json:"pageNetChange"` // summed signed amounts of this page
	NextToken     *string               `json:"nextToken,omitempty"`
}

// CashResponse is returned after a deposit or withdrawal.
type CashResponse struct {
	TransactionID int64  `json:"transactionID"`
	AccountID     int64  `json:"accountID"`
	Balance       string `json:"balance" example:"124.50"`
}
