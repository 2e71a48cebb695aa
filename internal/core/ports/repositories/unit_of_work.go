package repositories

import (
	"context"

	"github.com/SscSPs/mini_banking_api/internal/core/domain"
)

// UnitOfWork stages the mutations of one logical ledger operation and applies
// them atomically. A UnitOfWork is used by a single goroutine and only once.
type UnitOfWork interface {
	// GetAccountByID loads a private copy of the account and remembers the
	// version that was read. Returns apperrors.ErrAccountNotFound when absent.
	GetAccountByID(ctx context.Context, accountID int64) (*domain.Account, error)

	// UpdateAccount stages the account's new state, keyed by its ID and the
	// version it was read with.
	UpdateAccount(ctx context.Context, account *domain.Account) error

	// AddTransaction stages an insert of a ledger entry.
	AddTransaction(ctx context.Context, txn *domain.Transaction) error

	// Commit applies every staged operation or none of them. It returns
	// apperrors.ErrConcurrencyConflict if any staged account was changed by
	// another writer since it was read, and apperrors.ErrDuplicate if a staged
	// entry's idempotency key was already used. On success the staged accounts
	// carry their new versions and the entries their assigned IDs.
	Commit(ctx context.Context) error
}

// UnitOfWorkFactory opens a fresh UnitOfWork per operation attempt.
type UnitOfWorkFactory interface {
	NewUnitOfWork() UnitOfWork
}
