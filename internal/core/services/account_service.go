package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/mini_banking_api/internal/apperrors"
	"github.com/SscSPs/mini_banking_api/internal/core/domain"
	portsrepo "github.com/SscSPs/mini_banking_api/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mini_banking_api/internal/core/ports/services"
	"github.com/SscSPs/mini_banking_api/internal/utils"
	"github.com/SscSPs/mini_banking_api/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

const (
	DefaultHistoryPageSize = 20
	MaxHistoryPageSize     = 100

	// account number collisions are retried this many times before giving up
	maxAccountNumberAttempts = 3
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo  portsrepo.AccountRepositoryFacade
	txnRepo      portsrepo.TransactionReader
	customerRepo portsrepo.CustomerReader
	uowFactory   portsrepo.UnitOfWorkFactory
	numbers      *utils.AccountNumberGenerator
	retry        RetryPolicy
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithAccountNumberGenerator replaces the default clock-based generator.
func WithAccountNumberGenerator(g *utils.AccountNumberGenerator) AccountServiceOption {
	return func(s *accountService) {
		s.numbers = g
	}
}

// WithAccountRetryPolicy retries deposits, withdrawals and deactivations on conflict.
func WithAccountRetryPolicy(p RetryPolicy) AccountServiceOption {
	return func(s *accountService) {
		s.retry = p
	}
}

// WithAccountClock sets the time source for new accounts and ledger entries.
func WithAccountClock(now func() time.Time) AccountServiceOption {
	return func(s *accountService) {
		s.Clock = now
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repos portsrepo.RepositoryProvider, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo:  repos.AccountRepo,
		txnRepo:      repos.TransactionRepo,
		customerRepo: repos.CustomerRepo,
		uowFactory:   repos.UnitOfWork,
		retry:        NoRetry(),
	}
	for _, option := range options {
		option(svc)
	}
	if svc.numbers == nil {
		svc.numbers = utils.NewAccountNumberGenerator(svc.Now)
	}
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, customerID int64, currency domain.Currency) (*domain.Account, error) {
	if customerID <= 0 {
		err := apperrors.NewLedgerError(apperrors.ErrInvalidCustomer, fmt.Sprintf("customer id %d", customerID), decimal.Zero)
		s.LogWarn(ctx, err, "Rejected account creation", slog.Int64("customer_id", customerID))
		return nil, err
	}
	if !currency.IsValid() {
		return nil, fmt.Errorf("%w: unsupported currency %q", apperrors.ErrValidation, currency)
	}
	if _, err := s.customerRepo.FindCustomerByID(ctx, customerID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			err = apperrors.NewLedgerError(apperrors.ErrInvalidCustomer, fmt.Sprintf("customer %d does not exist", customerID), decimal.Zero)
			s.LogWarn(ctx, err, "Rejected account creation", slog.Int64("customer_id", customerID))
			return nil, err
		}
		s.LogError(ctx, err, "Failed to look up customer", slog.Int64("customer_id", customerID))
		return nil, fmt.Errorf("failed to look up customer: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < maxAccountNumberAttempts; attempt++ {
		account := domain.NewAccount(customerID, s.numbers.Next(), currency, s.Now())
		lastErr = s.accountRepo.SaveAccount(ctx, account)
		if lastErr == nil {
			s.LogInfo(ctx, "Account created",
				slog.Int64("account_id", account.ID),
				slog.String("account_number", account.AccountNumber),
				slog.Int64("customer_id", customerID),
				slog.String("currency", currency.String()))
			return account, nil
		}
		if !errors.Is(lastErr, apperrors.ErrDuplicate) {
			break
		}
		s.LogDebug(ctx, "Account number collision, generating another", slog.String("account_number", account.AccountNumber))
	}
	s.LogError(ctx, lastErr, "Failed to create account", slog.Int64("customer_id", customerID))
	return nil, fmt.Errorf("failed to create account: %w", lastErr)
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrAccountNotFound) {
			s.LogError(ctx, err, "Failed to load account", slog.Int64("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	if !utils.IsAccountNumber(accountNumber) {
		return nil, fmt.Errorf("%w: malformed account number %q", apperrors.ErrValidation, accountNumber)
	}
	account, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		if !errors.Is(err, apperrors.ErrAccountNotFound) {
			s.LogError(ctx, err, "Failed to load account", slog.String("account_number", accountNumber))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetTransaction(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load transaction", slog.Int64("transaction_id", transactionID))
		}
		return nil, err
	}
	return txn, nil
}

func (s *accountService) GetBalance(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

func (s *accountService) ListAccountsByCustomer(ctx context.Context, customerID int64) ([]domain.Account, error) {
	if customerID <= 0 {
		return nil, apperrors.NewLedgerError(apperrors.ErrInvalidCustomer, fmt.Sprintf("customer id %d", customerID), decimal.Zero)
	}
	accounts, err := s.accountRepo.ListAccountsByCustomer(ctx, customerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.Int64("customer_id", customerID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (s *accountService) ListTransactions(ctx context.Context, accountID int64, limit int, nextToken string) ([]domain.Transaction, string, error) {
	if limit <= 0 {
		limit = DefaultHistoryPageSize
	} else if limit > MaxHistoryPageSize {
		limit = MaxHistoryPageSize
	}

	params := portsrepo.ListTransactionsParams{Limit: limit + 1}
	if nextToken != "" {
		cursor, err := pagination.DecodeCursor(nextToken)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		params.Cursor = cursor
	}

	if _, err := s.GetAccountByID(ctx, accountID); err != nil {
		return nil, "", err
	}

	txns, err := s.txnRepo.ListTransactionsByAccount(ctx, accountID, params)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.Int64("account_id", accountID))
		return nil, "", fmt.Errorf("failed to list transactions: %w", err)
	}

	next := ""
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		next = pagination.EncodeCursor(last.CreatedAt, last.ID)
	}
	return txns, next, nil
}

// mutate runs one read-modify-commit cycle against a single account.
func (s *accountService) mutate(ctx context.Context, accountID int64, apply func(*domain.Account) (*domain.Transaction, error)) (*domain.Transaction, error) {
	var entry *domain.Transaction
	err := s.retry.Do(ctx, func(int) error {
		uow := s.uowFactory.NewUnitOfWork()
		account, err := uow.GetAccountByID(ctx, accountID)
		if err != nil {
			return err
		}
		entry, err = apply(account)
		if err != nil {
			return err
		}
		if err := uow.UpdateAccount(ctx, account); err != nil {
			return err
		}
		if entry != nil {
			if err := uow.AddTransaction(ctx, entry); err != nil {
				return err
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		return uow.Commit(context.WithoutCancel(ctx))
	}, func(attempt int, err error, delay time.Duration) {
		s.LogWarn(ctx, err, "Retrying account update after conflict",
			slog.Int64("account_id", accountID), slog.Int("attempt", attempt), slog.Duration("delay", delay))
	})
	return entry, err
}

func (s *accountService) Deposit(ctx context.Context, accountID int64, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	var balance string
	entry, err := s.mutate(ctx, accountID, func(a *domain.Account) (*domain.Transaction, error) {
		if err := a.Deposit(amount); err != nil {
			return nil, err
		}
		balance = utils.FormatWithCurrency(a.Balance, a.Currency)
		return domain.NewDepositTransaction(a.ID, amount, description, s.Now()), nil
	})
	if err != nil {
		s.LogWarn(ctx, err, "Deposit failed", slog.Int64("account_id", accountID), slog.String("amount", amount.String()))
		return nil, err
	}
	s.LogInfo(ctx, "Deposit completed",
		slog.Int64("account_id", accountID), slog.String("amount", amount.String()),
		slog.Int64("transaction_id", entry.ID), slog.String("balance", balance))
	return entry, nil
}

func (s *accountService) Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	var balance string
	entry, err := s.mutate(ctx, accountID, func(a *domain.Account) (*domain.Transaction, error) {
		if err := a.Withdraw(amount); err != nil {
			return nil, err
		}
		balance = utils.FormatWithCurrency(a.Balance, a.Currency)
		return domain.NewWithdrawTransaction(a.ID, amount, description, s.Now()), nil
	})
	if err != nil {
		s.LogWarn(ctx, err, "Withdraw failed", slog.Int64("account_id", accountID), slog.String("amount", amount.String()))
		return nil, err
	}
	s.LogInfo(ctx, "Withdraw completed",
		slog.Int64("account_id", accountID), slog.String("amount", amount.String()),
		slog.Int64("transaction_id", entry.ID), slog.String("balance", balance))
	return entry, nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, accountID int64) error {
	_, err := s.mutate(ctx, accountID, func(a *domain.Account) (*domain.Transaction, error) {
		return nil, a.Deactivate()
	})
	if err != nil {
		s.LogWarn(ctx, err, "Deactivation failed", slog.Int64("account_id", accountID))
		return err
	}
	s.LogInfo(ctx, "Account deactivated", slog.Int64("account_id", accountID))
	return nil
}
