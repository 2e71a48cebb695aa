package apperrors

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// Ledger error kinds. Every failure the account aggregate, the transfer engine
// or the unit of work can produce is one of these.
var (
	ErrInvalidAmount       = errors.New("amount must be greater than zero with at most 2 decimal places")
	ErrSameAccountTransfer = errors.New("cannot transfer to the same account")
	ErrAccountNotFound     = &notFoundKind{msg: "account not found"}
	ErrTransferNotAllowed  = errors.New("transfer not allowed")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrInactiveAccount     = errors.New("account is not active")
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	ErrInvalidCustomer     = errors.New("invalid customer")
)

// notFoundKind is a kind that also matches ErrNotFound, so generic
// not-found handling keeps working for accounts.
type notFoundKind struct {
	msg string
}

func (e *notFoundKind) Error() string { return e.msg }

func (e *notFoundKind) Is(target error) bool { return target == ErrNotFound }

// LedgerError attaches the context a caller needs to build a message
// (offending account ids, attempted amount) to one of the ledger kinds.
type LedgerError struct {
	Kind       error
	AccountIDs []int64
	Amount     decimal.Decimal
	Reason     string
}

// NewLedgerError builds a LedgerError for kind.
func NewLedgerError(kind error, reason string, amount decimal.Decimal, accountIDs ...int64) *LedgerError {
	return &LedgerError{Kind: kind, AccountIDs: accountIDs, Amount: amount, Reason: reason}
}

func (e *LedgerError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if len(e.AccountIDs) > 0 {
		ids := make([]string, len(e.AccountIDs))
		for i, id := range e.AccountIDs {
			ids[i] = strconv.FormatInt(id, 10)
		}
		b.WriteString(" (accounts ")
		b.WriteString(strings.Join(ids, ", "))
		b.WriteString(")")
	}
	if !e.Amount.IsZero() {
		b.WriteString(" (amount ")
		b.WriteString(e.Amount.String())
		b.WriteString(")")
	}
	return b.String()
}

func (e *LedgerError) Unwrap() error { return e.Kind }

// AppError carries an HTTP-ish status code and a safe message around an underlying error.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }
