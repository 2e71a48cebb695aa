package services

import (
	"context"

	"github.com/SscSPs/mini_banking_api/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID int64) (*domain.Account, error)

	// GetAccountByNumber looks an account up by its "TR" account number.
	GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)

	// GetBalance returns the current balance of an account.
	GetBalance(ctx context.Context, accountID int64) (decimal.Decimal, error)

	// ListAccountsByCustomer returns every account owned by a customer.
	ListAccountsByCustomer(ctx context.Context, customerID int64) ([]domain.Account, error)

	// ListTransactions returns one page of the account's history, newest
	// first, and the token for the next page ("" when there is none).
	ListTransactions(ctx context.Context, accountID int64, limit int, nextToken string) ([]domain.Transaction, string, error)

	// GetTransaction returns a single ledger entry.
	GetTransaction(ctx context.Context, transactionID int64) (*domain.Transaction, error)
}

// AccountWriterSvc defines lifecycle operations for accounts
type AccountWriterSvc interface {
	// CreateAccount opens an active, zero-balance account for a customer.
	CreateAccount(ctx context.Context, customerID int64, currency domain.Currency) (*domain.Account, error)

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, accountID int64) error
}

// AccountCashSvc moves money into or out of a single account.
type AccountCashSvc interface {
	Deposit(ctx context.Context, accountID int64, amount decimal.Decimal, description string) (*domain.Transaction, error)
	Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal, description string) (*domain.Transaction, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountCashSvc
}
