package repositories

import (
	"context"

	"github.com/SscSPs/mini_banking_api/internal/core/domain"
)

// CustomerReader resolves customer references. Customers are registered elsewhere.
type CustomerReader interface {
	// FindCustomerByID returns apperrors.ErrNotFound when the customer does not exist.
	FindCustomerByID(ctx context.Context, customerID int64) (*domain.Customer, error)
}
