// Package inmemory is a process-local implementation of the ledger
// repositories and unit of work. It honours the same version-check contract as
// the PostgreSQL store and backs tests and STORAGE_DRIVER=memory.
package inmemory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/mini_banking_api/internal/apperrors"
	"github.com/SscSPs/mini_banking_api/internal/core/domain"
	"github.com/SscSPs/mini_banking_api/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// Store keeps every row behind one RWMutex. Handed-out values are copies.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	accounts     map[int64]*domain.Account
	transactions map[int64]*domain.Transaction
	customers    map[int64]*domain.Customer
	users        map[int64]*domain.User

	accountNumbers  map[string]int64
	idempotencyKeys map[string]int64
	usernames       map[string]int64

	nextAccountID     int64
	nextTransactionID int64
	nextCustomerID    int64
	nextUserID        int64
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for updated_at stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore returns an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		now:             time.Now,
		accounts:        make(map[int64]*domain.Account),
		transactions:    make(map[int64]*domain.Transaction),
		customers:       make(map[int64]*domain.Customer),
		users:           make(map[int64]*domain.User),
		accountNumbers:  make(map[string]int64),
		idempotencyKeys: make(map[string]int64),
		usernames:       make(map[string]int64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	_ repositories.AccountRepositoryFacade = (*Store)(nil)
	_ repositories.TransactionReader       = (*Store)(nil)
	_ repositories.CustomerReader          = (*Store)(nil)
	_ repositories.UserRepositoryFacade    = (*Store)(nil)
	_ repositories.UnitOfWorkFactory       = (*Store)(nil)
)

// Provider exposes the store through every repository port.
func (s *Store) Provider() repositories.RepositoryProvider {
	return repositories.RepositoryProvider{
		AccountRepo:     s,
		TransactionRepo: s,
		CustomerRepo:    s,
		UserRepo:        s,
		UnitOfWork:      s,
	}
}

// AddCustomer registers a customer and assigns its ID.
func (s *Store) AddCustomer(customer domain.Customer) domain.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextCustomerID++
	customer.ID = s.nextCustomerID
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = s.now().UTC()
	}
	customer.Version = 1
	s.customers[customer.ID] = &customer
	return customer
}

func copyAccount(a *domain.Account) *domain.Account {
	cp := *a
	if a.UpdatedAt != nil {
		t := *a.UpdatedAt
		cp.UpdatedAt = &t
	}
	return &cp
}

func copyTransaction(t *domain.Transaction) domain.Transaction {
	cp := *t
	if t.ToAccountID != nil {
		id := *t.ToAccountID
		cp.ToAccountID = &id
	}
	if t.IdempotencyKey != nil {
		k := *t.IdempotencyKey
		cp.IdempotencyKey = &k
	}
	return cp
}

func accountNotFound(id int64) error {
	return apperrors.NewLedgerError(apperrors.ErrAccountNotFound, "", decimal.Zero, id)
}

// FindAccountByID implements repositories.AccountReader.
func (s *Store) FindAccountByID(_ context.Context, accountID int64) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return nil, accountNotFound(accountID)
	}
	return copyAccount(a), nil
}

// FindAccountByNumber implements repositories.AccountReader.
func (s *Store) FindAccountByNumber(_ context.Context, accountNumber string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.accountNumbers[accountNumber]
	if !ok {
		return nil, fmt.Errorf("account number %s: %w", accountNumber, apperrors.ErrAccountNotFound)
	}
	return copyAccount(s.accounts[id]), nil
}

// ListAccountsByCustomer implements repositories.AccountReader.
func (s *Store) ListAccountsByCustomer(_ context.Context, customerID int64) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Account, 0)
	for _, a := range s.accounts {
		if a.CustomerID == customerID {
			out = append(out, *copyAccount(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SaveAccount implements repositories.AccountWriter.
func (s *Store) SaveAccount(_ context.Context, account *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.accountNumbers[account.AccountNumber]; taken {
		return fmt.Errorf("account number %s: %w", account.AccountNumber, apperrors.ErrDuplicate)
	}
	if _, ok := s.customers[account.CustomerID]; !ok {
		return fmt.Errorf("customer %d: %w", account.CustomerID, apperrors.ErrInvalidCustomer)
	}
	s.nextAccountID++
	account.ID = s.nextAccountID
	account.Version = 1
	s.accounts[account.ID] = copyAccount(account)
	s.accountNumbers[account.AccountNumber] = account.ID
	return nil
}

// FindTransactionByID implements repositories.TransactionReader.
func (s *Store) FindTransactionByID(_ context.Context, transactionID int64) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.transactions[transactionID]
	if !ok {
		return nil, fmt.Errorf("transaction %d: %w", transactionID, apperrors.ErrNotFound)
	}
	cp := copyTransaction(t)
	return &cp, nil
}

// FindTransactionByIdempotencyKey implements repositories.TransactionReader.
func (s *Store) FindTransactionByIdempotencyKey(_ context.Context, key string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.idempotencyKeys[key]
	if !ok {
		return nil, fmt.Errorf("idempotency key %q: %w", key, apperrors.ErrNotFound)
	}
	cp := copyTransaction(s.transactions[id])
	return &cp, nil
}

// ListTransactionsByAccount implements repositories.TransactionReader.
func (s *Store) ListTransactionsByAccount(_ context.Context, accountID int64, params repositories.ListTransactionsParams) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Transaction, 0)
	for _, t := range s.transactions {
		if t.Involves(accountID) && params.Cursor.After(t.CreatedAt, t.ID) {
			out = append(out, copyTransaction(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if params.Limit > 0 && len(out) > params.Limit {
		out = out[:params.Limit]
	}
	return out, nil
}

// FindCustomerByID implements repositories.CustomerReader.
func (s *Store) FindCustomerByID(_ context.Context, customerID int64) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[customerID]
	if !ok {
		return nil, fmt.Errorf("customer %d: %w", customerID, apperrors.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

// FindUserByID implements repositories.UserReader.
func (s *Store) FindUserByID(_ context.Context, userID int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", userID, apperrors.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

// FindUserByUsername implements repositories.UserReader.
func (s *Store) FindUserByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernames[strings.ToLower(username)]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", username, apperrors.ErrNotFound)
	}
	cp := *s.users[id]
	return &cp, nil
}

// SaveUser implements repositories.UserWriter.
func (s *Store) SaveUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(user.Username)
	if _, taken := s.usernames[key]; taken {
		return fmt.Errorf("username %q: %w", user.Username, apperrors.ErrDuplicate)
	}
	if _, ok := s.customers[user.CustomerID]; !ok {
		return fmt.Errorf("customer %d: %w", user.CustomerID, apperrors.ErrInvalidCustomer)
	}
	s.nextUserID++
	user.ID = s.nextUserID
	user.Version = 1
	cp := *user
	s.users[user.ID] = &cp
	s.usernames[key] = user.ID
	return nil
}
