package services_test

import (
	"testing"
	"time"

	"github.com/SscSPs/mini_banking_api/internal/apperrors"
	portssvc "github.com/SscSPs/mini_banking_api/internal/core/ports/services"
	"github.com/SscSPs/mini_banking_api/internal/core/services"
	"github.com/SscSPs/mini_banking_api/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	fx := newLedgerFixture()
	svc := services.NewAuthService(fx.store, fx.store, services.TokenConfig{Secret: "secret", Expiry: time.Hour, Issuer: "test"})

	user, err := svc.Register(fx.ctx, portssvc.RegisterCommand{
		Username: "ada", Password: "correct-horse", Email: "ada@example.com", CustomerID: fx.customer.ID,
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)

	token, expiresAt, err := svc.Login(fx.ctx, "ada", "correct-horse")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))
	claims, err := utils.ParseAndValidateJWT(token, "secret", "test")
	require.NoError(t, err)
	assert.Equal(t, "1", claims.Subject)

	_, _, err = svc.Login(fx.ctx, "ada", "wrong-password")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	_, _, err = svc.Login(fx.ctx, "nobody", "correct-horse")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	fx := newLedgerFixture()
	svc := services.NewAuthService(fx.store, fx.store, services.TokenConfig{Secret: "secret", Expiry: time.Hour})
	valid := portssvc.RegisterCommand{Username: "ada", Password: "correct-horse", Email: "ada@example.com", CustomerID: fx.customer.ID}

	_, err := svc.Register(fx.ctx, valid)
	require.NoError(t, err)

	tests := []struct {
		name    string
		mutate  func(*portssvc.RegisterCommand)
		wantErr error
	}{
		{name: "duplicate username", mutate: func(c *portssvc.RegisterCommand) {}, wantErr: apperrors.ErrDuplicate},
		{name: "blank username", mutate: func(c *portssvc.RegisterCommand) { c.Username = "  " }, wantErr: apperrors.ErrValidation},
		{name: "bad email", mutate: func(c *portssvc.RegisterCommand) { c.Username = "b"; c.Email = "nope" }, wantErr: apperrors.ErrValidation},
		{name: "short password", mutate: func(c *portssvc.RegisterCommand) { c.Username = "c"; c.Password = "123" }, wantErr: apperrors.ErrValidation},
		{name: "unknown customer", mutate: func(c *portssvc.RegisterCommand) { c.Username = "d"; c.CustomerID = 999 }, wantErr: apperrors.ErrInvalidCustomer},
		{name: "non-positive customer", mutate: func(c *portssvc.RegisterCommand) { c.Username = "e"; c.CustomerID = 0 }, wantErr: apperrors.ErrInvalidCustomer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := valid
			tt.mutate(&cmd)
			_, err := svc.Register(fx.ctx, cmd)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
