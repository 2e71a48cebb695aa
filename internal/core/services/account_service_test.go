package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/mini_banking_api/internal/apperrors"
	"github.com/SscSPs/mini_banking_api/internal/core/domain"
	portsrepo "github.com/SscSPs/mini_banking_api/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mini_banking_api/internal/core/ports/services"
	"github.com/SscSPs/mini_banking_api/internal/core/services"
	"github.com/SscSPs/mini_banking_api/internal/utils"
	"github.com/SscSPs/mini_banking_api/internal/utils/accounting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByCustomer(ctx context.Context, customerID int64) ([]domain.Account, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// MockCustomerReader is a mock type for the CustomerReader interface
type MockCustomerReader struct {
	mock.Mock
}

func (m *MockCustomerReader) FindCustomerByID(ctx context.Context, customerID int64) (*domain.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

// --- mock-backed tests for account creation ---

type AccountServiceTestSuite struct {
	suite.Suite
	ctx          context.Context
	mockRepo     *MockAccountRepository
	mockCustomer *MockCustomerReader
	service      portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockRepo = new(MockAccountRepository)
	suite.mockCustomer = new(MockCustomerReader)
	frozen := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	suite.service = services.NewAccountService(
		portsrepo.RepositoryProvider{AccountRepo: suite.mockRepo, CustomerRepo: suite.mockCustomer},
		services.WithAccountClock(func() time.Time { return frozen }),
		services.WithAccountNumberGenerator(utils.NewAccountNumberGenerator(func() time.Time { return frozen })),
	)
}

func (suite *AccountServiceTestSuite) TearDownTest() {
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockCustomer.AssertExpectations(suite.T())
}

func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	suite.mockCustomer.On("FindCustomerByID", suite.ctx, int64(3)).Return(&domain.Customer{Entity: domain.Entity{ID: 3}}, nil).Once()
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.AnythingOfType("*domain.Account")).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.Account).ID = 11 }).
		Return(nil).Once()

	account, err := suite.service.CreateAccount(suite.ctx, 3, domain.CurrencyTRY)

	suite.Require().NoError(err)
	suite.Equal(int64(11), account.ID)
	suite.Equal(int64(3), account.CustomerID)
	suite.True(account.IsActive)
	suite.True(account.Balance.IsZero())
	suite.True(utils.IsAccountNumber(account.AccountNumber), account.AccountNumber)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_RetriesNumberCollision() {
	suite.mockCustomer.On("FindCustomerByID", suite.ctx, int64(3)).Return(&domain.Customer{}, nil).Once()
	var numbers []string
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.AnythingOfType("*domain.Account")).
		Run(func(args mock.Arguments) { numbers = append(numbers, args.Get(1).(*domain.Account).AccountNumber) }).
		Return(apperrors.ErrDuplicate).Once()
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.AnythingOfType("*domain.Account")).
		Run(func(args mock.Arguments) { numbers = append(numbers, args.Get(1).(*domain.Account).AccountNumber) }).
		Return(nil).Once()

	_, err := suite.service.CreateAccount(suite.ctx, 3, domain.CurrencyUSD)

	suite.Require().NoError(err)
	suite.Require().Len(numbers, 2)
	suite.NotEqual(numbers[0], numbers[1])
}

func (suite *AccountServiceTestSuite) TestCreateAccount_InvalidCustomer() {
	_, err := suite.service.CreateAccount(suite.ctx, 0, domain.CurrencyTRY)
	suite.ErrorIs(err, apperrors.ErrInvalidCustomer)

	suite.mockCustomer.On("FindCustomerByID", suite.ctx, int64(77)).Return(nil, apperrors.ErrNotFound).Once()
	_, err = suite.service.CreateAccount(suite.ctx, 77, domain.CurrencyTRY)
	suite.ErrorIs(err, apperrors.ErrInvalidCustomer)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_InvalidCurrency() {
	_, err := suite.service.CreateAccount(suite.ctx, 3, domain.Currency("GBP"))
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_RepositoryFailure() {
	dbErr := errors.New("connection reset")
	suite.mockCustomer.On("FindCustomerByID", suite.ctx, int64(3)).Return(&domain.Customer{}, nil).Once()
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.AnythingOfType("*domain.Account")).Return(dbErr).Once()

	_, err := suite.service.CreateAccount(suite.ctx, 3, domain.CurrencyTRY)

	suite.ErrorIs(err, dbErr)
}

func (suite *AccountServiceTestSuite) TestGetBalance_NotFound() {
	suite.mockRepo.On("FindAccountByID", suite.ctx, int64(5)).Return(nil, apperrors.ErrAccountNotFound).Once()

	_, err := suite.service.GetBalance(suite.ctx, 5)

	suite.ErrorIs(err, apperrors.ErrAccountNotFound)
}

// --- store-backed tests for money movement ---

func TestAccountService_DepositWithdrawAndHistory(t *testing.T) {
	fx := newLedgerFixture()
	svc := services.NewAccountService(fx.store.Provider())
	account, err := svc.CreateAccount(fx.ctx, fx.customer.ID, domain.CurrencyTRY)
	require.NoError(t, err)

	_, err = svc.Deposit(fx.ctx, account.ID, dec("250.75"), "")
	require.NoError(t, err)
	w, err := svc.Withdraw(fx.ctx, account.ID, dec("50.75"), "atm")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionWithdraw, w.Type)
	assert.Equal(t, "atm", w.Description)

	_, err = svc.Withdraw(fx.ctx, account.ID, dec("1000"), "")
	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
	_, err = svc.Deposit(fx.ctx, account.ID, dec("0"), "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
	_, err = svc.Deposit(fx.ctx, 424242, dec("1"), "")
	assert.ErrorIs(t, err, apperrors.ErrAccountNotFound)

	balance, err := svc.GetBalance(fx.ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, dec("200").Equal(balance), "balance = %s", balance)
	again, err := svc.GetBalance(fx.ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(again))

	page, next, err := svc.ListTransactions(fx.ctx, account.ID, 1, "")
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, domain.TransactionWithdraw, page[0].Type)
	require.NotEmpty(t, next)

	page, next, err = svc.ListTransactions(fx.ctx, account.ID, 1, next)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, domain.TransactionDeposit, page[0].Type)
	assert.Empty(t, next)

	full, _, err := svc.ListTransactions(fx.ctx, account.ID, 10, "")
	require.NoError(t, err)
	replayed, err := accounting.NetChange(full, account.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(replayed), "replayed history = %s", replayed)

	_, _, err = svc.ListTransactions(fx.ctx, account.ID, 10, "%%%")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, _, err = svc.ListTransactions(fx.ctx, 999, 10, "")
	assert.ErrorIs(t, err, apperrors.ErrAccountNotFound)
}

func TestAccountService_DeactivateAndList(t *testing.T) {
	fx := newLedgerFixture()
	svc := services.NewAccountService(fx.store.Provider())
	first, err := svc.CreateAccount(fx.ctx, fx.customer.ID, domain.CurrencyTRY)
	require.NoError(t, err)
	second, err := svc.CreateAccount(fx.ctx, fx.customer.ID, domain.CurrencyEUR)
	require.NoError(t, err)
	assert.NotEqual(t, first.AccountNumber, second.AccountNumber)

	require.NoError(t, svc.DeactivateAccount(fx.ctx, first.ID))
	assert.ErrorIs(t, svc.DeactivateAccount(fx.ctx, first.ID), apperrors.ErrInactiveAccount)
	_, err = svc.Deposit(fx.ctx, first.ID, dec("1"), "")
	assert.ErrorIs(t, err, apperrors.ErrInactiveAccount)

	accounts, err := svc.ListAccountsByCustomer(fx.ctx, fx.customer.ID)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.False(t, accounts[0].IsActive)
	assert.True(t, accounts[1].IsActive)

	_, err = svc.ListAccountsByCustomer(fx.ctx, -1)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCustomer)
}

func TestAccountService_LookupsByNumberAndTransaction(t *testing.T) {
	fx := newLedgerFixture()
	svc := services.NewAccountService(fx.store.Provider())
	account, err := svc.CreateAccount(fx.ctx, fx.customer.ID, domain.CurrencyTRY)
	require.NoError(t, err)

	found, err := svc.GetAccountByNumber(fx.ctx, account.AccountNumber)
	require.NoError(t, err)
	assert.Equal(t, account.ID, found.ID)

	_, err = svc.GetAccountByNumber(fx.ctx, "TR12")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = svc.GetAccountByNumber(fx.ctx, "TR999999999999")
	assert.ErrorIs(t, err, apperrors.ErrAccountNotFound)

	deposit, err := svc.Deposit(fx.ctx, account.ID, dec("40"), "")
	require.NoError(t, err)
	txn, err := svc.GetTransaction(fx.ctx, deposit.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionDeposit, txn.Type)
	assert.True(t, dec("40").Equal(txn.Amount))

	_, err = svc.GetTransaction(fx.ctx, deposit.ID+100)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
