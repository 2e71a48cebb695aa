package models

import "github.com/shopspring/decimal"

// Transaction is a row of the transactions table.
type Transaction struct {
	Entity
	FromAccountID   int64           `db:"from_account_id"`
	ToAccountID     *int64          `db:"to_account_id"` // Nullable, transfers only
	Amount          decimal.Decimal `db:"amount"`
	TransactionType string          `db:"transaction_type"`
	Description     string          `db:"description"`
	IdempotencyKey  *string         `db:"idempotency_key"` // Nullable
}
