// Package records owns the lifecycle writes of top-up transaction records
// that do not move money.
package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chris/topup-webhook-bridge/pkg/models"
	"github.com/chris/topup-webhook-bridge/pkg/storage"
)

// ErrInvalidTransition is returned for status writes this manager may not perform.
// SUCCESS is only reachable through the credit operation.
var ErrInvalidTransition = errors.New("invalid status transition")

// NewPending is the data captured when a charge is opened.
type NewPending struct {
	OrderID      string
	UserID       string
	UserName     string
	Amount       models.Money
	GatewayToken string
}

type Manager struct {
	store storage.TransactionStore
	now   func() time.Time
}

func NewManager(store storage.TransactionStore) *Manager {
	return &Manager{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// CreatePending writes a PENDING record together with its gateway token.
func (m *Manager) CreatePending(ctx context.Context, p NewPending) (*models.Transaction, error) {
	now := m.now()
	tx := &models.Transaction{
		OrderId:      p.OrderID,
		UserId:       p.UserID,
		UserName:     p.UserName,
		Amount:       p.Amount,
		Type:         models.TopUp,
		Status:       models.PENDING,
		GatewayToken: p.GatewayToken,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := m.store.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to create pending transaction %s: %w", p.OrderID, err)
	}
	return tx, nil
}

func (m *Manager) Get(ctx context.Context, orderID string) (*models.Transaction, error) {
	return m.store.GetTransaction(ctx, orderID)
}

// Exists reports whether a record with the order ID is stored.
func (m *Manager) Exists(ctx context.Context, orderID string) (bool, error) {
	_, err := m.store.GetTransaction(ctx, orderID)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SetStatus moves a record from one non-terminal status to a non-success one.
// The write is conditional on the stored status still being from.
func (m *Manager) SetStatus(ctx context.Context, orderID string, from, to models.TransactionStatus) error {
	if to == models.SUCCESS {
		return fmt.Errorf("%s to %s: %w", from, to, ErrInvalidTransition)
	}
	if from.IsTerminal() {
		return fmt.Errorf("%s is terminal: %w", from, ErrInvalidTransition)
	}
	return m.store.UpdateTransactionStatus(ctx, orderID, from, to)
}
