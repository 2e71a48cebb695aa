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

const userColumns = `id, username, password_hash, email, customer_id, created_at, updated_at, version`

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(pool *pgxpool.Pool) *PgxUserRepository {
	return &PgxUserRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

// SaveUser inserts a new user. Usernames are unique regardless of case.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user *domain.User) error {
	m := mapping.ToModelUser(*user)
	query := `
		INSERT INTO users (username, password_hash, email, customer_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, version;
	`
	err := r.Pool.QueryRow(ctx, query, m.Username, m.PasswordHash, m.Email, m.CustomerID, m.CreatedAt).
		Scan(&user.ID, &user.Version)
	if err != nil {
		switch code, _ := pgErrorCode(err); code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: username %s is taken", apperrors.ErrDuplicate, m.Username)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: customer %d does not exist", apperrors.ErrInvalidCustomer, m.CustomerID)
		}
		return fmt.Errorf("failed to save user %s: %w", m.Username, err)
	}
	return nil
}

// FindUserByID retrieves a specific user by their ID.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1;`
	u, err := r.queryOne(ctx, query, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", userID, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user %d: %w", userID, err)
	}
	return u, nil
}

// FindUserByUsername retrieves a user by login name, ignoring case.
func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(username) = lower($1);`
	u, err := r.queryOne(ctx, query, username)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", username, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user %s: %w", username, err)
	}
	return u, nil
}

func (r *PgxUserRepository) queryOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	rows, err := r.Pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		return nil, err
	}
	u := mapping.ToDomainUser(m)
	return &u, nil
}
