package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/mini_banking_api/internal/apperrors"
	"github.com/SscSPs/mini_banking_api/internal/core/domain"
	portsrepo "github.com/SscSPs/mini_banking_api/internal/core/ports/repositories"
	"github.com/SscSPs/mini_banking_api/internal/models"
	"github.com/SscSPs/mini_banking_api/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCustomerRepository struct {
	BaseRepository
}

func newPgxCustomerRepository(pool *pgxpool.Pool) *PgxCustomerRepository {
	return &PgxCustomerRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.CustomerReader = (*PgxCustomerRepository)(nil)

func (r *PgxCustomerRepository) FindCustomerByID(ctx context.Context, customerID int64) (*domain.Customer, error) {
	query := `
		SELECT id, first_name, last_name, identity_number, email, phone, created_at, updated_at, version
		FROM customers
		WHERE id = $1;
	`
	rows, err := r.Pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find customer %d: %w", customerID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Customer])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("customer %d: %w", customerID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to scan customer %d: %w", customerID, err)
	}
	c := mapping.ToDomainCustomer(m)
	return &c, nil
}
