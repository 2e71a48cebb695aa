package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/SscSPs/mini_banking_api/internal/apperrors"
	"github.com/SscSPs/mini_banking_api/internal/core/domain"
	portsrepo "github.com/SscSPs/mini_banking_api/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mini_banking_api/internal/core/ports/services"
	"github.com/SscSPs/mini_banking_api/internal/utils"
	"github.com/shopspring/decimal"
)

// TokenConfig carries the JWT settings the auth service signs with.
type TokenConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

// authService registers users and issues access tokens.
type authService struct {
	BaseService
	userRepo     portsrepo.UserRepositoryFacade
	customerRepo portsrepo.CustomerReader
	tokens       TokenConfig
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo portsrepo.UserRepositoryFacade, customerRepo portsrepo.CustomerReader, tokens TokenConfig) portssvc.AuthSvcFacade {
	return &authService{
		userRepo:     userRepo,
		customerRepo: customerRepo,
		tokens:       tokens,
	}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

func (s *authService) Register(ctx context.Context, cmd portssvc.RegisterCommand) (*domain.User, error) {
	username := strings.TrimSpace(cmd.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", apperrors.ErrValidation)
	}
	if _, err := mail.ParseAddress(cmd.Email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", apperrors.ErrValidation)
	}
	if cmd.CustomerID <= 0 {
		return nil, apperrors.NewLedgerError(apperrors.ErrInvalidCustomer, fmt.Sprintf("customer id %d", cmd.CustomerID), decimal.Zero)
	}
	if _, err := s.customerRepo.FindCustomerByID(ctx, cmd.CustomerID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewLedgerError(apperrors.ErrInvalidCustomer, fmt.Sprintf("customer %d does not exist", cmd.CustomerID), decimal.Zero)
		}
		s.LogError(ctx, err, "Failed to look up customer", slog.Int64("customer_id", cmd.CustomerID))
		return nil, fmt.Errorf("failed to look up customer: %w", err)
	}

	hash, err := utils.HashPassword(cmd.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Entity:       domain.Entity{CreatedAt: s.Now().UTC()},
		Username:     username,
		PasswordHash: hash,
		Email:        cmd.Email,
		CustomerID:   cmd.CustomerID,
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("username %q is taken: %w", username, apperrors.ErrDuplicate)
		}
		s.LogError(ctx, err, "Failed to save user", slog.String("username", username))
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.LogInfo(ctx, "User registered", slog.Int64("user_id", user.ID), slog.Int64("customer_id", user.CustomerID))
	return user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "Login for unknown user", slog.String("username", username))
			return "", time.Time{}, apperrors.ErrUnauthorized
		}
		s.LogError(ctx, err, "Failed to look up user", slog.String("username", username))
		return "", time.Time{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.LogDebug(ctx, "Login with wrong password", slog.Int64("user_id", user.ID))
		return "", time.Time{}, apperrors.ErrUnauthorized
	}

	token, expiresAt, err := utils.GenerateJWT(user.ID, s.tokens.Secret, s.tokens.Expiry, s.tokens.Issuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign access token", slog.Int64("user_id", user.ID))
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	s.LogInfo(ctx, "User logged in", slog.Int64("user_id", user.ID))
	return token, expiresAt, nil
}
