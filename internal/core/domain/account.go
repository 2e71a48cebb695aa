package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/mini_banking_api/internal/apperrors"
	"github.com/shopspring/decimal"
)

// AmountScale is the number of fractional digits a monetary amount may carry.
const AmountScale = 2

// Account is the ledger state of one customer account. Balance only changes
// through Deposit and Withdraw.
type Account struct {
	Entity
	AccountNumber string          `json:"accountNumber"`
	CustomerID    int64           `json:"customerID"`
	Balance       decimal.Decimal `json:"balance"`
	Currency      Currency        `json:"currency"`
	IsActive      bool            `json:"isActive"`
}

// NewAccount returns an active account with a zero balance.
func NewAccount(customerID int64, accountNumber string, currency Currency, now time.Time) *Account {
	return &Account{
		Entity:        Entity{CreatedAt: now.UTC()},
		AccountNumber: accountNumber,
		CustomerID:    customerID,
		Balance:       decimal.Zero,
		Currency:      currency,
		IsActive:      true,
	}
}

// ValidateAmount rejects amounts that are not strictly positive or that carry
// more precision than the ledger stores.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.NewLedgerError(apperrors.ErrInvalidAmount, "", amount)
	}
	if !amount.Equal(amount.Truncate(AmountScale)) {
		return apperrors.NewLedgerError(apperrors.ErrInvalidAmount,
			fmt.Sprintf("%s carries more than %d decimal places", amount.String(), AmountScale), amount)
	}
	return nil
}

// Deposit increases the balance by amount.
func (a *Account) Deposit(amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if !a.IsActive {
		return apperrors.NewLedgerError(apperrors.ErrInactiveAccount, "deposit rejected", amount, a.ID)
	}
	a.Balance = a.Balance.Add(amount)
	return nil
}

// Withdraw decreases the balance by amount. The balance never goes negative.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if !a.IsActive {
		return apperrors.NewLedgerError(apperrors.ErrInactiveAccount, "withdraw rejected", amount, a.ID)
	}
	if a.Balance.LessThan(amount) {
		return apperrors.NewLedgerError(apperrors.ErrInsufficientFunds,
			fmt.Sprintf("available balance %s", a.Balance.StringFixed(AmountScale)), amount, a.ID)
	}
	a.Balance = a.Balance.Sub(amount)
	return nil
}

// CanTransferTo reports whether money may move from a to other: both must be
// active and hold the same currency.
func (a *Account) CanTransferTo(other *Account) bool {
	if a == nil || other == nil {
		return false
	}
	return a.IsActive && other.IsActive && a.Currency == other.Currency
}

// Deactivate closes the account. Accounts are never hard-deleted.
func (a *Account) Deactivate() error {
	if !a.IsActive {
		return apperrors.NewLedgerError(apperrors.ErrInactiveAccount, "account already deactivated", decimal.Zero, a.ID)
	}
	a.IsActive = false
	return nil
}
