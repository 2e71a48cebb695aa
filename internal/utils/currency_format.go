package utils

import (
	"github.com/SscSPs/mini_banking_api/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FormatAmount renders an amount with the ledger's fixed precision.
// Example: 12.3 returns "12.30"
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(domain.AmountScale)
}

// FormatWithCurrency renders an amount followed by its currency code.
// Example: 1500 with TRY returns "1500.00 TRY"
func FormatWithCurrency(amount decimal.Decimal, currency domain.Currency) string {
	return FormatAmount(amount) + " " + currency.String()
}
