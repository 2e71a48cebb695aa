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
	"github.com/shopspring/decimal"
)

const accountColumns = `id, account_number, customer_id, balance, currency, is_active, created_at, updated_at, version`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// SaveAccount inserts a new account and fills in the generated id and version.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account *domain.Account) error {
	m := mapping.ToModelAccount(*account)

	query := `
		INSERT INTO accounts (account_number, customer_id, balance, currency, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, version;
	`
	err := r.Pool.QueryRow(ctx, query,
		m.AccountNumber,
		m.CustomerID,
		m.Balance,
		m.Currency,
		m.IsActive,
		m.CreatedAt,
	).Scan(&account.ID, &account.Version)
	if err != nil {
		switch code, _ := pgErrorCode(err); code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: account number %s already exists", apperrors.ErrDuplicate, m.AccountNumber)
		case pgForeignKeyViolation:
			return apperrors.NewLedgerError(apperrors.ErrInvalidCustomer,
				fmt.Sprintf("customer %d does not exist", m.CustomerID), decimal.Zero)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountNumber, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1;`
	acc, err := r.queryOne(ctx, query, accountID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewLedgerError(apperrors.ErrAccountNotFound, "", decimal.Zero, accountID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account %d: %w", accountID, err)
	}
	return acc, nil
}

// FindAccountByNumber retrieves an account by its account number.
func (r *PgxAccountRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1;`
	acc, err := r.queryOne(ctx, query, accountNumber)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewLedgerError(apperrors.ErrAccountNotFound, "number "+accountNumber, decimal.Zero)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountNumber, err)
	}
	return acc, nil
}

// ListAccountsByCustomer returns a customer's accounts, oldest first.
func (r *PgxAccountRepository) ListAccountsByCustomer(ctx context.Context, customerID int64) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE customer_id = $1 ORDER BY created_at, id;`
	rows, err := r.Pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for customer %d: %w", customerID, err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, fmt.Errorf("failed to scan accounts for customer %d: %w", customerID, err)
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

func (r *PgxAccountRepository) queryOne(ctx context.Context, query string, arg any) (*domain.Account, error) {
	rows, err := r.Pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, err
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}
