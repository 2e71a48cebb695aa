package services

import (
	"context"
	"time"

	"github.com/SscSPs/mini_banking_api/internal/core/domain"
)

// RegisterCommand carries the fields needed to create a login for a customer.
type RegisterCommand struct {
	Username   string
	Password   string
	Email      string
	CustomerID int64
}

// AuthSvcFacade registers users and issues access tokens.
type AuthSvcFacade interface {
	Register(ctx context.Context, cmd RegisterCommand) (*domain.User, error)
	// Login verifies credentials and returns a signed access token.
	Login(ctx context.Context, username, password string) (token string, expiresAt time.Time, err error)
}
