package pgsql

import (
	portsrepo "github.com/SscSPs/mini_banking_api/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	transactionRepo := newPgxTransactionRepository(dbPool)
	customerRepo := newPgxCustomerRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)
	uowFactory := newPgxUnitOfWorkFactory(dbPool, accountRepo)

	return portsrepo.RepositoryProvider{
		AccountRepo:     accountRepo,
		TransactionRepo: transactionRepo,
		CustomerRepo:    customerRepo,
		UserRepo:        userRepo,
		UnitOfWork:      uowFactory,
	}
}
