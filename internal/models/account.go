package models

import "github.com/shopspring/decimal"

// Account is a row of the accounts table.
type Account struct {
	Entity
	AccountNumber string          `db:"account_number"`
	CustomerID    int64           `db:"customer_id"`
	Balance       decimal.Decimal `db:"balance"`
	Currency      string          `db:"currency"`
	IsActive      bool            `db:"is_active"`
}
