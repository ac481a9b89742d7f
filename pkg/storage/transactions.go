package storage

import (
	"context"
	"time"

	"github.com/chris/topup-webhook-bridge/pkg/models"
)

// TransactionReader defines the interface for reading transaction data.
type TransactionReader interface {
	// GetTransaction retrieves a transaction by its order ID. It returns ErrNotFound if absent.
	GetTransaction(ctx context.Context, orderID string) (*models.Transaction, error)

	// ListTransactionsByUserID retrieves all transactions for a specific user.
	ListTransactionsByUserID(ctx context.Context, userID string) ([]models.Transaction, error)

	// GetStaleTransactions retrieves transactions in the given status created more than maxAge ago.
	GetStaleTransactions(ctx context.Context, status models.TransactionStatus, maxAge time.Duration) ([]models.Transaction, error)
}

// TransactionWriter defines the non-monetary writes on transaction records.
type TransactionWriter interface {
	// CreateTransaction writes a new record. It returns ErrDuplicateOrder if the order ID exists.
	CreateTransaction(ctx context.Context, tx *models.Transaction) error

	// UpdateTransactionStatus moves a record from one status to another.
	// The write only happens if the stored status is still from; otherwise it
	// returns ErrStatusConflict, or ErrNotFound if the record is absent.
	UpdateTransactionStatus(ctx context.Context, orderID string, from, to models.TransactionStatus) error
}

// TransactionStore combines the reader and writer interfaces.
type TransactionStore interface {
	TransactionReader
	TransactionWriter
}
