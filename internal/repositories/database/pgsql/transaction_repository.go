package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/mini_banking_api/internal/apperrors"
	"github.com/SscSPs/mini_banking_api/internal/core/domain"
	portsrepo "github.com/SscSPs/mini_banking_api/internal/core/ports/repositories"
	"github.com/SscSPs/mini_banking_api/internal/models"
	"github.com/SscSPs/mini_banking_api/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `id, from_account_id, to_account_id, amount, transaction_type, description, idempotency_key, created_at, updated_at, version`

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) *PgxTransactionRepository {
	return &PgxTransactionRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionReader = (*PgxTransactionRepository)(nil)

// FindTransactionByID retrieves a ledger entry by its ID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1;`
	txn, err := r.queryOne(ctx, query, transactionID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: transaction %d", apperrors.ErrNotFound, transactionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %d: %w", transactionID, err)
	}
	return txn, nil
}

// FindTransactionByIdempotencyKey retrieves the entry recorded under key.
func (r *PgxTransactionRepository) FindTransactionByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE idempotency_key = $1;`
	txn, err := r.queryOne(ctx, query, key)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: no transaction for idempotency key %q", apperrors.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction by idempotency key: %w", err)
	}
	return txn, nil
}

// ListTransactionsByAccount returns entries touching the account, newest first,
// starting strictly after the cursor when one is given.
func (r *PgxTransactionRepository) ListTransactionsByAccount(ctx context.Context, accountID int64, params portsrepo.ListTransactionsParams) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE (from_account_id = $1 OR to_account_id = $1)
		  AND ($2::timestamptz IS NULL OR (created_at, id) < ($2::timestamptz, $3::bigint))
		ORDER BY created_at DESC, id DESC
		LIMIT $4;
	`
	var (
		cursorAt any
		cursorID any
		limit    any // NULL means no limit
	)
	if params.Cursor != nil {
		cursorAt, cursorID = params.Cursor.CreatedAt, params.Cursor.ID
	}
	if params.Limit > 0 {
		limit = params.Limit
	}

	rows, err := r.Pool.Query(ctx, query, accountID, cursorAt, cursorID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for account %d: %w", accountID, err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, fmt.Errorf("failed to scan transactions for account %d: %w", accountID, err)
	}
	return mapping.ToDomainTransactionSlice(ms), nil
}

func (r *PgxTransactionRepository) queryOne(ctx context.Context, query string, arg any) (*domain.Transaction, error) {
	rows, err := r.Pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, err
	}
	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}
