package services

import (
	"context"

	"github.com/SscSPs/mini_banking_api/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransferCommand is a request to move Amount between two accounts.
type TransferCommand struct {
	FromAccountID int64
	ToAccountID   int64
	Amount        decimal.Decimal
	Description   string
	// IdempotencyKey, when set, makes a repeated command return the
	// originally recorded transaction instead of moving money again.
	IdempotencyKey string
}

// TransferSvc is the transfer engine.
type TransferSvc interface {
	Transfer(ctx context.Context, cmd TransferCommand) (*domain.Transaction, error)
}
