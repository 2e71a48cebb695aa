package mapping

import (
	"github.com/SscSPs/mini_banking_api/internal/core/domain"
	"github.com/SscSPs/mini_banking_api/internal/dto"
	"github.com/SscSPs/mini_banking_api/internal/models"
	"github.com/SscSPs/mini_banking_api/internal/utils"
	"github.com/SscSPs/mini_banking_api/internal/utils/accounting"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		Entity:          ToModelEntity(d.Entity),
		FromAccountID:   d.FromAccountID,
		ToAccountID:     d.ToAccountID,
		Amount:          d.Amount,
		TransactionType: string(d.Type),
		Description:     d.Description,
		IdempotencyKey:  d.IdempotencyKey,
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		Entity:         ToDomainEntity(m.Entity),
		FromAccountID:  m.FromAccountID,
		ToAccountID:    m.ToAccountID,
		Amount:         m.Amount,
		Type:           domain.TransactionType(m.TransactionType),
		Description:    m.Description,
		IdempotencyKey: m.IdempotencyKey,
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}

// ToTransactionResponse converts a domain Transaction to its API representation
func ToTransactionResponse(d domain.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		TransactionID: d.ID,
		FromAccountID: d.FromAccountID,
		ToAccountID:   d.ToAccountID,
		Amount:        utils.FormatAmount(d.Amount),
		Type:          string(d.Type),
		Description:   d.Description,
		CreatedAt:     d.CreatedAt,
	}
}

// ToAccountHistoryResponse renders one page of an account's history with the
// signed effect of each entry on that account.
func ToAccountHistoryResponse(accountID int64, ds []domain.Transaction, nextToken string) (dto.ListTransactionsResponse, error) {
	list := make([]dto.TransactionResponse, len(ds))
	for i, d := range ds {
		signed, err := accounting.SignedAmount(d, accountID)
		if err != nil {
			return dto.ListTransactionsResponse{}, err
		}
		list[i] = ToTransactionResponse(d)
		list[i].SignedAmount = utils.FormatAmount(signed)
	}
	net, err := accounting.NetChange(ds, accountID)
	if err != nil {
		return dto.ListTransactionsResponse{}, err
	}
	resp := dto.ListTransactionsResponse{Transactions: list, PageNetChange: utils.FormatAmount(net)}
	if nextToken != "" {
		resp.NextToken = &nextToken
	}
	return resp, nil
}
