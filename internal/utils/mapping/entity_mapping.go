package mapping

import (
	"github.com/SscSPs/mini_banking_api/internal/core/domain"
	"github.com/SscSPs/mini_banking_api/internal/models"
)

// ToModelEntity converts a domain Entity to a model Entity
func ToModelEntity(d domain.Entity) models.Entity {
	return models.Entity{
		ID:        d.ID,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		Version:   d.Version,
	}
}

// ToDomainEntity converts a model Entity to a domain Entity
func ToDomainEntity(m models.Entity) domain.Entity {
	return domain.Entity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		Version:   m.Version,
	}
}
