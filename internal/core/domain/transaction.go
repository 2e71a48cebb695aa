package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/mini_banking_api/internal/apperrors"
	"github.com/shopspring/decimal"
)

// TransactionType is the kind of ledger entry.
type TransactionType string

const (
	TransactionDeposit  TransactionType = "DEPOSIT"
	TransactionWithdraw TransactionType = "WITHDRAW"
	TransactionTransfer TransactionType = "TRANSFER"
)

const (
	DefaultTransferDescription = "Money transfer"
	DefaultDepositDescription  = "Deposit"
	DefaultWithdrawDescription = "Withdrawal"

	MaxDescriptionLength = 500
)

// Transaction is an append-only ledger entry. A transfer is a single entry
// referencing both accounts.
type Transaction struct {
	Entity
	FromAccountID  int64           `json:"fromAccountID"`
	ToAccountID    *int64          `json:"toAccountID,omitempty"` // transfers only
	Amount         decimal.Decimal `json:"amount"`
	Type           TransactionType `json:"type"`
	Description    string          `json:"description"`
	IdempotencyKey *string         `json:"-"`
}

func newTransaction(t TransactionType, from int64, to *int64, amount decimal.Decimal, description, fallback string, now time.Time) *Transaction {
	if description == "" {
		description = fallback
	}
	return &Transaction{
		Entity:        Entity{CreatedAt: now.UTC()},
		FromAccountID: from,
		ToAccountID:   to,
		Amount:        amount,
		Type:          t,
		Description:   description,
	}
}

// NewTransferTransaction builds the entry recording a move from one account to another.
func NewTransferTransaction(fromID, toID int64, amount decimal.Decimal, description string, now time.Time) *Transaction {
	return newTransaction(TransactionTransfer, fromID, &toID, amount, description, DefaultTransferDescription, now)
}

// NewDepositTransaction builds the entry recording a deposit into accountID.
func NewDepositTransaction(accountID int64, amount decimal.Decimal, description string, now time.Time) *Transaction {
	return newTransaction(TransactionDeposit, accountID, nil, amount, description, DefaultDepositDescription, now)
}

// NewWithdrawTransaction builds the entry recording a withdrawal from accountID.
func NewWithdrawTransaction(accountID int64, amount decimal.Decimal, description string, now time.Time) *Transaction {
	return newTransaction(TransactionWithdraw, accountID, nil, amount, description, DefaultWithdrawDescription, now)
}

// Involves reports whether the entry touches accountID on either side.
func (t *Transaction) Involves(accountID int64) bool {
	if t.FromAccountID == accountID {
		return true
	}
	return t.ToAccountID != nil && *t.ToAccountID == accountID
}

// Validate checks the entry before it is staged.
func (t *Transaction) Validate() error {
	if err := ValidateAmount(t.Amount); err != nil {
		return err
	}
	switch t.Type {
	case TransactionTransfer:
		if t.ToAccountID == nil {
			return fmt.Errorf("%w: transfer requires a destination account", apperrors.ErrValidation)
		}
		if *t.ToAccountID == t.FromAccountID {
			return apperrors.NewLedgerError(apperrors.ErrSameAccountTransfer, "", t.Amount, t.FromAccountID)
		}
	case TransactionDeposit, TransactionWithdraw:
		if t.ToAccountID != nil {
			return fmt.Errorf("%w: %s must not reference a destination account", apperrors.ErrValidation, t.Type)
		}
	default:
		return fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, t.Type)
	}
	if len([]rune(t.Description)) > MaxDescriptionLength {
		return fmt.Errorf("%w: description longer than %d characters", apperrors.ErrValidation, MaxDescriptionLength)
	}
	return nil
}
