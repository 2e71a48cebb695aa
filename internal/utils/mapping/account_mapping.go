package mapping

import (
	"github.com/SscSPs/mini_banking_api/internal/core/domain"
	"github.com/SscSPs/mini_banking_api/internal/dto"
	"github.com/SscSPs/mini_banking_api/internal/models"
	"github.com/SscSPs/mini_banking_api/internal/utils"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		Entity:        ToModelEntity(d.Entity),
		AccountNumber: d.AccountNumber,
		CustomerID:    d.CustomerID,
		Balance:       d.Balance,
		Currency:      d.Currency.String(),
		IsActive:      d.IsActive,
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		Entity:        ToDomainEntity(m.Entity),
		AccountNumber: m.AccountNumber,
		CustomerID:    m.CustomerID,
		Balance:       m.Balance,
		Currency:      domain.Currency(m.Currency),
		IsActive:      m.IsActive,
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}

// ToAccountResponse converts a domain Account to its API representation
func ToAccountResponse(d domain.Account) dto.AccountResponse {
	return dto.AccountResponse{
		AccountID:     d.ID,
		AccountNumber: d.AccountNumber,
		CustomerID:    d.CustomerID,
		Balance:       utils.FormatAmount(d.Balance),
		Currency:      d.Currency.String(),
		IsActive:      d.IsActive,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// ToListAccountsResponse converts a slice of domain Accounts to a list response
func ToListAccountsResponse(ds []domain.Account) dto.ListAccountsResponse {
	list := make([]dto.AccountResponse, len(ds))
	for i, d := range ds {
		list[i] = ToAccountResponse(d)
	}
	return dto.ListAccountsResponse{Accounts: list}
}
