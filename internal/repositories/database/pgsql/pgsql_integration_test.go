package pgsql_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/SscSPs/mini_banking_api/internal/apperrors"
	"github.com/SscSPs/mini_banking_api/internal/core/domain"
	"github.com/SscSPs/mini_banking_api/internal/core/ports/repositories"
	"github.com/SscSPs/mini_banking_api/internal/repositories/database/pgsql"
	"github.com/SscSPs/mini_banking_api/internal/utils/pagination"
	"github.com/SscSPs/mini_banking_api/pkg/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// PgsqlTestSuite runs against a disposable database named by PGSQL_TEST_URL.
type PgsqlTestSuite struct {
	suite.Suite
	ctx   context.Context
	pool  *pgxpool.Pool
	repos repositories.RepositoryProvider
}

func TestPgsqlTestSuite(t *testing.T) {
	url := os.Getenv("PGSQL_TEST_URL")
	if url == "" {
		t.Skip("PGSQL_TEST_URL not set")
	}
	suite.Run(t, &PgsqlTestSuite{})
}

func (s *PgsqlTestSuite) SetupSuite() {
	s.ctx = context.Background()
	url := os.Getenv("PGSQL_TEST_URL")
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	s.Require().NoError(database.RunMigrations(url, "file://../../../../migrations", logger))

	pool, err := database.NewPgxPool(s.ctx, url, database.DefaultPoolOptions())
	s.Require().NoError(err)
	s.pool = pool
	s.repos = pgsql.NewRepositoryProvider(pool)
}

func (s *PgsqlTestSuite) TearDownSuite() {
	database.ClosePgxPool(s.pool)
}

func (s *PgsqlTestSuite) SetupTest() {
	_, err := s.pool.Exec(s.ctx, `TRUNCATE transactions, accounts, users RESTART IDENTITY CASCADE;`)
	s.Require().NoError(err)
}

func (s *PgsqlTestSuite) seedAccount(number, balance string) *domain.Account {
	a := domain.NewAccount(1, number, domain.CurrencyTRY, time.Now())
	s.Require().NoError(s.repos.AccountRepo.SaveAccount(s.ctx, a))
	if balance != "0" {
		_, err := s.pool.Exec(s.ctx, `UPDATE accounts SET balance = $2 WHERE id = $1`, a.ID, decimal.RequireFromString(balance))
		s.Require().NoError(err)
	}
	out, err := s.repos.AccountRepo.FindAccountByID(s.ctx, a.ID)
	s.Require().NoError(err)
	return out
}

func (s *PgsqlTestSuite) transfer(from, to *domain.Account, amount, key string) error {
	uow := s.repos.UnitOfWork.NewUnitOfWork()
	src, err := uow.GetAccountByID(s.ctx, from.ID)
	s.Require().NoError(err)
	dst, err := uow.GetAccountByID(s.ctx, to.ID)
	s.Require().NoError(err)

	amt := decimal.RequireFromString(amount)
	s.Require().NoError(src.Withdraw(amt))
	s.Require().NoError(dst.Deposit(amt))
	s.Require().NoError(uow.UpdateAccount(s.ctx, src))
	s.Require().NoError(uow.UpdateAccount(s.ctx, dst))
	txn := domain.NewTransferTransaction(src.ID, dst.ID, amt, "", time.Now())
	if key != "" {
		txn.IdempotencyKey = &key
	}
	s.Require().NoError(uow.AddTransaction(s.ctx, txn))
	return uow.Commit(s.ctx)
}

func (s *PgsqlTestSuite) TestSaveAccount_AssignsIDAndVersion() {
	a := s.seedAccount("TR000000000001", "0")

	s.Positive(a.ID)
	s.Equal(int64(1), a.Version)
	s.True(a.IsActive)
	s.True(a.Balance.IsZero())
}

func (s *PgsqlTestSuite) TestSaveAccount_DuplicateNumber() {
	s.seedAccount("TR000000000001", "0")

	dup := domain.NewAccount(1, "TR000000000001", domain.CurrencyTRY, time.Now())
	s.ErrorIs(s.repos.AccountRepo.SaveAccount(s.ctx, dup), apperrors.ErrDuplicate)
}

func (s *PgsqlTestSuite) TestSaveAccount_UnknownCustomer() {
	a := domain.NewAccount(9999, "TR000000000002", domain.CurrencyTRY, time.Now())
	s.ErrorIs(s.repos.AccountRepo.SaveAccount(s.ctx, a), apperrors.ErrInvalidCustomer)
}

func (s *PgsqlTestSuite) TestFindAccountByID_NotFound() {
	_, err := s.repos.AccountRepo.FindAccountByID(s.ctx, 404)
	s.ErrorIs(err, apperrors.ErrAccountNotFound)
}

func (s *PgsqlTestSuite) TestCommit_TransferMovesFundsAndBumpsVersions() {
	from := s.seedAccount("TR000000000001", "100.00")
	to := s.seedAccount("TR000000000002", "0")

	s.Require().NoError(s.transfer(from, to, "40.25", ""))

	src, err := s.repos.AccountRepo.FindAccountByID(s.ctx, from.ID)
	s.Require().NoError(err)
	dst, err := s.repos.AccountRepo.FindAccountByID(s.ctx, to.ID)
	s.Require().NoError(err)
	s.Equal("59.75", src.Balance.StringFixed(2))
	s.Equal("40.25", dst.Balance.StringFixed(2))
	s.Equal(from.Version+1, src.Version)
	s.Equal(to.Version+1, dst.Version)

	history, err := s.repos.TransactionRepo.ListTransactionsByAccount(s.ctx, to.ID, repositories.ListTransactionsParams{})
	s.Require().NoError(err)
	s.Len(history, 1)
	s.Equal(domain.TransactionTransfer, history[0].Type)
}

func (s *PgsqlTestSuite) TestCommit_BalanceBeyondSixteenDigits() {
	a := s.seedAccount("TR000000000001", "9999999999999999.99")

	uow := s.repos.UnitOfWork.NewUnitOfWork()
	loaded, err := uow.GetAccountByID(s.ctx, a.ID)
	s.Require().NoError(err)
	huge := decimal.RequireFromString("100000000000000000000.50")
	s.Require().NoError(loaded.Deposit(huge))
	s.Require().NoError(uow.UpdateAccount(s.ctx, loaded))
	s.Require().NoError(uow.AddTransaction(s.ctx, domain.NewDepositTransaction(a.ID, huge, "", time.Now())))
	s.Require().NoError(uow.Commit(s.ctx))

	stored, err := s.repos.AccountRepo.FindAccountByID(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Equal("100010000000000000000.49", stored.Balance.StringFixed(2))
}

func (s *PgsqlTestSuite) TestCommit_StaleVersionRollsBack() {
	from := s.seedAccount("TR000000000001", "100.00")
	to := s.seedAccount("TR000000000002", "0")

	stale := s.repos.UnitOfWork.NewUnitOfWork()
	src, err := stale.GetAccountByID(s.ctx, from.ID)
	s.Require().NoError(err)

	s.Require().NoError(s.transfer(from, to, "10", ""))

	s.Require().NoError(src.Withdraw(decimal.NewFromInt(50)))
	s.Require().NoError(stale.UpdateAccount(s.ctx, src))
	s.Require().NoError(stale.AddTransaction(s.ctx, domain.NewWithdrawTransaction(src.ID, decimal.NewFromInt(50), "", time.Now())))
	err = stale.Commit(s.ctx)

	s.ErrorIs(err, apperrors.ErrConcurrencyConflict)
	current, err := s.repos.AccountRepo.FindAccountByID(s.ctx, from.ID)
	s.Require().NoError(err)
	s.Equal("90.00", current.Balance.StringFixed(2))
	history, err := s.repos.TransactionRepo.ListTransactionsByAccount(s.ctx, from.ID, repositories.ListTransactionsParams{})
	s.Require().NoError(err)
	s.Len(history, 1)
}

func (s *PgsqlTestSuite) TestCommit_DuplicateIdempotencyKey() {
	from := s.seedAccount("TR000000000001", "100.00")
	to := s.seedAccount("TR000000000002", "0")

	s.Require().NoError(s.transfer(from, to, "10", "key-1"))
	s.ErrorIs(s.transfer(from, to, "10", "key-1"), apperrors.ErrDuplicate)

	found, err := s.repos.TransactionRepo.FindTransactionByIdempotencyKey(s.ctx, "key-1")
	s.Require().NoError(err)
	s.Equal(from.ID, found.FromAccountID)
}

func (s *PgsqlTestSuite) TestListTransactions_CursorPagination() {
	from := s.seedAccount("TR000000000001", "100.00")
	to := s.seedAccount("TR000000000002", "0")
	for i := 0; i < 5; i++ {
		s.Require().NoError(s.transfer(from, to, "1", ""))
		from, _ = s.repos.AccountRepo.FindAccountByID(s.ctx, from.ID)
		to, _ = s.repos.AccountRepo.FindAccountByID(s.ctx, to.ID)
	}

	first, err := s.repos.TransactionRepo.ListTransactionsByAccount(s.ctx, from.ID, repositories.ListTransactionsParams{Limit: 3})
	s.Require().NoError(err)
	s.Require().Len(first, 3)

	last := first[len(first)-1]
	second, err := s.repos.TransactionRepo.ListTransactionsByAccount(s.ctx, from.ID, repositories.ListTransactionsParams{
		Limit:  3,
		Cursor: &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID},
	})
	s.Require().NoError(err)
	s.Len(second, 2)
	for _, t := range second {
		s.Less(t.ID, last.ID)
	}
}

func (s *PgsqlTestSuite) TestUsers_CaseInsensitiveUsername() {
	u := &domain.User{Username: "Alice", PasswordHash: "x", Email: "alice@example.com", CustomerID: 1}
	u.CreatedAt = time.Now()
	s.Require().NoError(s.repos.UserRepo.SaveUser(s.ctx, u))

	found, err := s.repos.UserRepo.FindUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(u.ID, found.ID)

	dup := &domain.User{Username: "ALICE", PasswordHash: "x", Email: "a2@example.com", CustomerID: 1}
	dup.CreatedAt = time.Now()
	s.ErrorIs(s.repos.UserRepo.SaveUser(s.ctx, dup), apperrors.ErrDuplicate)
}
