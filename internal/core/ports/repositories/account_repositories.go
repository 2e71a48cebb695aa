package repositories

import (
	"context"

	"github.com/SscSPs/mini_banking_api/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves an account by id. Returns apperrors.ErrAccountNotFound when absent.
	FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error)

	// FindAccountByNumber retrieves an account by its account number.
	FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)

	// ListAccountsByCustomer returns every account owned by a customer, oldest first.
	ListAccountsByCustomer(ctx context.Context, customerID int64) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account and assigns its ID and version.
	// Returns apperrors.ErrDuplicate if the account number is taken.
	SaveAccount(ctx context.Context, account *domain.Account) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
