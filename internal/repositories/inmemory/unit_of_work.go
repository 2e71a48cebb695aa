package inmemory

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/mini_banking_api/internal/apperrors"
	"github.com/SscSPs/mini_banking_api/internal/core/domain"
	"github.com/SscSPs/mini_banking_api/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

var errUnitOfWorkDone = errors.New("unit of work already committed")

type unitOfWork struct {
	store    *Store
	read     map[int64]int64 // account id -> version seen
	accounts map[int64]*domain.Account
	order    []int64
	entries  []*domain.Transaction
	done     bool
}

var _ repositories.UnitOfWork = (*unitOfWork)(nil)

// NewUnitOfWork implements repositories.UnitOfWorkFactory.
func (s *Store) NewUnitOfWork() repositories.UnitOfWork {
	return &unitOfWork{
		store:    s,
		read:     make(map[int64]int64),
		accounts: make(map[int64]*domain.Account),
	}
}

func (u *unitOfWork) GetAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	if u.done {
		return nil, errUnitOfWorkDone
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a, err := u.store.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if _, seen := u.read[accountID]; !seen {
		u.read[accountID] = a.Version
	}
	return a, nil
}

func (u *unitOfWork) UpdateAccount(_ context.Context, account *domain.Account) error {
	if u.done {
		return errUnitOfWorkDone
	}
	if _, seen := u.read[account.ID]; !seen {
		u.read[account.ID] = account.Version
	}
	if _, staged := u.accounts[account.ID]; !staged {
		u.order = append(u.order, account.ID)
	}
	u.accounts[account.ID] = account
	return nil
}

func (u *unitOfWork) AddTransaction(_ context.Context, txn *domain.Transaction) error {
	if u.done {
		return errUnitOfWorkDone
	}
	if err := txn.Validate(); err != nil {
		return err
	}
	u.entries = append(u.entries, txn)
	return nil
}

// Commit validates every precondition under the store lock before touching
// any row, so a failure leaves the store unchanged.
func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.done {
		return errUnitOfWorkDone
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	u.done = true

	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range u.order {
		current, ok := s.accounts[id]
		if !ok {
			return accountNotFound(id)
		}
		if current.Version != u.read[id] {
			return apperrors.NewLedgerError(apperrors.ErrConcurrencyConflict,
				fmt.Sprintf("expected version %d, found %d", u.read[id], current.Version), decimal.Zero, id)
		}
	}
	seenKeys := make(map[string]struct{})
	for _, t := range u.entries {
		for _, accountID := range []int64{t.FromAccountID, derefID(t.ToAccountID)} {
			if accountID == 0 {
				continue
			}
			if _, ok := s.accounts[accountID]; !ok {
				return accountNotFound(accountID)
			}
		}
		if t.IdempotencyKey == nil {
			continue
		}
		key := *t.IdempotencyKey
		_, taken := s.idempotencyKeys[key]
		_, dup := seenKeys[key]
		if taken || dup {
			return fmt.Errorf("idempotency key %q: %w", key, apperrors.ErrDuplicate)
		}
		seenKeys[key] = struct{}{}
	}

	now := s.now()
	for _, id := range u.order {
		a := u.accounts[id]
		a.Version = u.read[id] + 1
		a.Touch(now)
		s.accounts[id] = copyAccount(a)
	}
	for _, t := range u.entries {
		s.nextTransactionID++
		t.ID = s.nextTransactionID
		t.Version = 1
		cp := copyTransaction(t)
		s.transactions[t.ID] = &cp
		if t.IdempotencyKey != nil {
			s.idempotencyKeys[*t.IdempotencyKey] = t.ID
		}
	}
	return nil
}

func derefID(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}
