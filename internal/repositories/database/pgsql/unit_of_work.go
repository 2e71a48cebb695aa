package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/SscSPs/mini_banking_api/internal/apperrors"
	"github.com/SscSPs/mini_banking_api/internal/core/domain"
	portsrepo "github.com/SscSPs/mini_banking_api/internal/core/ports/repositories"
	"github.com/SscSPs/mini_banking_api/internal/middleware"
	"github.com/SscSPs/mini_banking_api/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var errUnitOfWorkDone = errors.New("unit of work already committed")

// PgxUnitOfWorkFactory opens units of work against a pool.
type PgxUnitOfWorkFactory struct {
	pool     *pgxpool.Pool
	accounts *PgxAccountRepository
	clock    func() time.Time
}

func newPgxUnitOfWorkFactory(pool *pgxpool.Pool, accounts *PgxAccountRepository) *PgxUnitOfWorkFactory {
	return &PgxUnitOfWorkFactory{pool: pool, accounts: accounts, clock: time.Now}
}

var _ portsrepo.UnitOfWorkFactory = (*PgxUnitOfWorkFactory)(nil)

// NewUnitOfWork implements portsrepo.UnitOfWorkFactory.
func (f *PgxUnitOfWorkFactory) NewUnitOfWork() portsrepo.UnitOfWork {
	return &pgxUnitOfWork{
		base:     BaseRepository{Pool: f.pool},
		accounts: f.accounts,
		clock:    f.clock,
		read:     make(map[int64]int64),
		staged:   make(map[int64]*domain.Account),
	}
}

// pgxUnitOfWork reads through the pool without holding locks and defers all
// writes to a single database transaction in Commit. Each staged account is
// written with a version guard, so a concurrent writer makes the update match
// zero rows and the whole transaction is rolled back.
type pgxUnitOfWork struct {
	base     BaseRepository
	accounts *PgxAccountRepository
	clock    func() time.Time

	read    map[int64]int64 // account id -> version seen
	staged  map[int64]*domain.Account
	entries []*domain.Transaction
	done    bool
}

var _ portsrepo.UnitOfWork = (*pgxUnitOfWork)(nil)

func (u *pgxUnitOfWork) GetAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	if u.done {
		return nil, errUnitOfWorkDone
	}
	acc, err := u.accounts.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if _, seen := u.read[accountID]; !seen {
		u.read[accountID] = acc.Version
	}
	return acc, nil
}

func (u *pgxUnitOfWork) UpdateAccount(_ context.Context, account *domain.Account) error {
	if u.done {
		return errUnitOfWorkDone
	}
	if _, seen := u.read[account.ID]; !seen {
		u.read[account.ID] = account.Version
	}
	u.staged[account.ID] = account
	return nil
}

func (u *pgxUnitOfWork) AddTransaction(_ context.Context, txn *domain.Transaction) error {
	if u.done {
		return errUnitOfWorkDone
	}
	if err := txn.Validate(); err != nil {
		return err
	}
	u.entries = append(u.entries, txn)
	return nil
}

// Commit writes staged accounts in ascending id order so two commits touching
// the same pair of rows always lock them in the same order.
func (u *pgxUnitOfWork) Commit(ctx context.Context) (err error) {
	if u.done {
		return errUnitOfWorkDone
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	u.done = true
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := u.base.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rbErr := u.base.Rollback(ctx, tx); rbErr != nil {
				logger.ErrorContext(ctx, "Failed to roll back unit of work", slog.String("error", rbErr.Error()))
			}
		}
	}()

	now := u.clock().UTC()
	ids := make([]int64, 0, len(u.staged))
	for id := range u.staged {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	if err = u.writeBatch(ctx, tx, ids, now); err != nil {
		return err
	}
	if err = u.base.Commit(ctx, tx); err != nil {
		return err
	}

	for _, id := range ids {
		a := u.staged[id]
		a.Version = u.read[id] + 1
		a.Touch(now)
	}
	return nil
}

func (u *pgxUnitOfWork) writeBatch(ctx context.Context, tx pgx.Tx, ids []int64, now time.Time) error {
	updateQuery := `
		UPDATE accounts
		SET balance = $2, is_active = $3, updated_at = $4, version = version + 1
		WHERE id = $1 AND version = $5;
	`
	insertQuery := `
		INSERT INTO transactions (from_account_id, to_account_id, amount, transaction_type, description, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, version;
	`

	batch := &pgx.Batch{}
	for _, id := range ids {
		a := u.staged[id]
		batch.Queue(updateQuery, a.ID, a.Balance, a.IsActive, now, u.read[id])
	}
	for _, t := range u.entries {
		m := mapping.ToModelTransaction(*t)
		batch.Queue(insertQuery, m.FromAccountID, m.ToAccountID, m.Amount, m.TransactionType, m.Description, m.IdempotencyKey, m.CreatedAt)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for _, id := range ids {
		ct, err := br.Exec()
		if err != nil {
			batchErr = translateUpdateError(u.staged[id], err)
			break
		}
		if ct.RowsAffected() == 0 {
			batchErr = apperrors.NewLedgerError(apperrors.ErrConcurrencyConflict,
				fmt.Sprintf("account changed since version %d was read", u.read[id]), decimal.Zero, id)
			break
		}
	}
	if batchErr == nil {
		for _, t := range u.entries {
			if err := br.QueryRow().Scan(&t.ID, &t.CreatedAt, &t.Version); err != nil {
				batchErr = translateInsertError(t, err)
				break
			}
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close unit of work batch: %w", err)
	}
	return batchErr
}

func translateUpdateError(a *domain.Account, err error) error {
	if code, _ := pgErrorCode(err); code == pgNumericOutOfRange {
		return apperrors.NewLedgerError(apperrors.ErrInvalidAmount, "balance exceeds the storable range", a.Balance, a.ID)
	}
	return fmt.Errorf("failed to update account %d: %w", a.ID, err)
}

func translateInsertError(t *domain.Transaction, err error) error {
	code, constraint := pgErrorCode(err)
	switch {
	case code == pgNumericOutOfRange:
		return apperrors.NewLedgerError(apperrors.ErrInvalidAmount, "amount exceeds the storable range", t.Amount, t.FromAccountID)
	case code == pgUniqueViolation && t.IdempotencyKey != nil:
		return fmt.Errorf("idempotency key %q (%s): %w", *t.IdempotencyKey, constraint, apperrors.ErrDuplicate)
	case code == pgForeignKeyViolation:
		ids := []int64{t.FromAccountID}
		if t.ToAccountID != nil {
			ids = append(ids, *t.ToAccountID)
		}
		return apperrors.NewLedgerError(apperrors.ErrAccountNotFound, constraint, decimal.Zero, ids...)
	}
	return fmt.Errorf("failed to insert %s transaction: %w", t.Type, err)
}
