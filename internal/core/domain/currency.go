package domain

import (
	"fmt"
	"slices"
	"strings"

	"github.com/SscSPs/mini_banking_api/internal/apperrors"
)

// Currency is the closed set of currencies an account can hold.
type Currency string

const (
	CurrencyTRY Currency = "TRY"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// SupportedCurrencies lists every valid Currency.
func SupportedCurrencies() []Currency {
	return []Currency{CurrencyTRY, CurrencyUSD, CurrencyEUR}
}

// IsValid reports whether c is one of the supported currencies.
func (c Currency) IsValid() bool {
	return slices.Contains(SupportedCurrencies(), c)
}

func (c Currency) String() string { return string(c) }

// ParseCurrency converts a case-insensitive code into a Currency.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: unsupported currency %q, expected one of %v", apperrors.ErrValidation, code, SupportedCurrencies())
	}
	return c, nil
}
