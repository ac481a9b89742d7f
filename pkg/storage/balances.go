package storage

import (
	"context"

	"github.com/chris/topup-webhook-bridge/pkg/models"
)

// BalanceReader defines the interface for reading user balances.
type BalanceReader interface {
	// GetBalance retrieves a user's balance. A missing record is returned as a zero balance.
	GetBalance(ctx context.Context, userID string) (*models.Balance, error)
}

// CreditStore defines the privileged interface for crediting a confirmed top-up.
// It should only be exposed to the reconciliation engine.
type CreditStore interface {
	// CreditTransaction atomically adds tx.Amount to the user's balance, sets the
	// transaction status to SUCCESS and writes the ledger entries. The whole unit
	// is conditioned on the stored status still being expected, so two concurrent
	// callers that observed the same status cannot both succeed.
	CreditTransaction(ctx context.Context, tx *models.Transaction, expected models.TransactionStatus) error
}
