package repositories

import (
	"context"

	"github.com/SscSPs/mini_banking_api/internal/core/domain"
	"github.com/SscSPs/mini_banking_api/internal/utils/pagination"
)

// ListTransactionsParams selects one page of an account's history, newest first.
type ListTransactionsParams struct {
	Limit  int
	Cursor *pagination.Cursor // nil for the first page
}

// TransactionReader defines read operations for ledger entries. Entries are
// written only through a UnitOfWork.
type TransactionReader interface {
	// FindTransactionByID retrieves a ledger entry. Returns apperrors.ErrNotFound when absent.
	FindTransactionByID(ctx context.Context, transactionID int64) (*domain.Transaction, error)

	// FindTransactionByIdempotencyKey returns the entry recorded under key, or apperrors.ErrNotFound.
	FindTransactionByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, error)

	// ListTransactionsByAccount returns entries where the account is source or destination.
	ListTransactionsByAccount(ctx context.Context, accountID int64, params ListTransactionsParams) ([]domain.Transaction, error)
}
