package services

import (
	"time"

	portsrepo "github.com/SscSPs/mini_banking_api/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mini_banking_api/internal/core/ports/services"
	"github.com/SscSPs/mini_banking_api/internal/platform/config"
)

// maxRetryDelay caps a single backoff sleep.
const maxRetryDelay = time.Second

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	retry := RetryPolicy{
		MaxAttempts: cfg.TransferMaxAttempts,
		BaseDelay:   cfg.TransferRetryBaseDelay,
		MaxDelay:    maxRetryDelay,
	}

	return &portssvc.ServiceContainer{
		Account:  NewAccountService(repos, WithAccountRetryPolicy(retry)),
		Transfer: NewTransferService(repos.UnitOfWork, repos.TransactionRepo, WithRetryPolicy(retry)),
		Auth: NewAuthService(repos.UserRepo, repos.CustomerRepo, TokenConfig{
			Secret: cfg.JWTSecret,
			Expiry: cfg.JWTExpiryDuration,
			Issuer: cfg.JWTIssuer,
		}),
	}
}
