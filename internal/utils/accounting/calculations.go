package accounting

import (
	"fmt"

	"github.com/SscSPs/mini_banking_api/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount returns the effect of txn on accountID's balance: positive for
// money in, negative for money out.
func SignedAmount(txn domain.Transaction, accountID int64) (decimal.Decimal, error) {
	switch txn.Type {
	case domain.TransactionDeposit:
		if txn.FromAccountID == accountID {
			return txn.Amount, nil
		}
	case domain.TransactionWithdraw:
		if txn.FromAccountID == accountID {
			return txn.Amount.Neg(), nil
		}
	case domain.TransactionTransfer:
		if txn.FromAccountID == accountID {
			return txn.Amount.Neg(), nil
		}
		if txn.ToAccountID != nil && *txn.ToAccountID == accountID {
			return txn.Amount, nil
		}
	default:
		return decimal.Zero, fmt.Errorf("unknown transaction type '%s' for transaction ID %d", txn.Type, txn.ID)
	}
	return decimal.Zero, fmt.Errorf("transaction ID %d does not involve account ID %d", txn.ID, accountID)
}

// NetChange sums the signed effect of every entry on accountID. Replaying an
// account's full history from a zero opening balance yields its balance.
func NetChange(transactions []domain.Transaction, accountID int64) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, txn := range transactions {
		signed, err := SignedAmount(txn, accountID)
		if err != nil {
			return decimal.Zero, err
		}
		sum = sum.Add(signed)
	}
	return sum, nil
}
