package mapping

import (
	"github.com/SscSPs/mini_banking_api/internal/core/domain"
	"github.com/SscSPs/mini_banking_api/internal/dto"
	"github.com/SscSPs/mini_banking_api/internal/models"
)

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	return models.User{
		Entity:       ToModelEntity(d.Entity),
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		Email:        d.Email,
		CustomerID:   d.CustomerID,
	}
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		Entity:       ToDomainEntity(m.Entity),
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Email:        m.Email,
		CustomerID:   m.CustomerID,
	}
}

// ToDomainCustomer converts a model Customer to a domain Customer
func ToDomainCustomer(m models.Customer) domain.Customer {
	c := domain.Customer{
		Entity:         ToDomainEntity(m.Entity),
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		IdentityNumber: m.IdentityNumber,
		Email:          m.Email,
	}
	if m.Phone != nil {
		c.Phone = *m.Phone
	}
	return c
}

// ToUserResponse converts a domain User to its API representation
func ToUserResponse(d domain.User) dto.UserResponse {
	return dto.UserResponse{
		UserID:     d.ID,
		Username:   d.Username,
		Email:      d.Email,
		CustomerID: d.CustomerID,
		CreatedAt:  d.CreatedAt,
	}
}
