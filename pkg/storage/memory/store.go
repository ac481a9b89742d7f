// Package memory is an in-process Storage used for local runs and tests.
// A single mutex stands in for the conditional writes of the durable backends.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/chris/topup-webhook-bridge/pkg/models"
	"github.com/chris/topup-webhook-bridge/pkg/storage"
)

type Store struct {
	mu           sync.Mutex
	transactions map[string]models.Transaction
	balances     map[string]models.Balance
	ledger       map[string]models.LedgerEntry

	// RequireExistingBalance makes a credit fail for users without a balance record.
	RequireExistingBalance bool
}

var _ storage.Storage = (*Store)(nil)

func New() *Store {
	return &Store{
		transactions: make(map[string]models.Transaction),
		balances:     make(map[string]models.Balance),
		ledger:       make(map[string]models.LedgerEntry),
	}
}

// SeedBalance stores a balance record, replacing any existing one.
func (s *Store) SeedBalance(userID string, amount models.Money) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	s.balances[userID] = models.Balance{UserId: userID, Balance: amount, CreatedAt: now, UpdatedAt: now}
}

func (s *Store) CreateTransaction(_ context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transactions[tx.OrderId]; ok {
		return fmt.Errorf("order %s: %w", tx.OrderId, storage.ErrDuplicateOrder)
	}
	s.transactions[tx.OrderId] = *tx
	return nil
}

func (s *Store) GetTransaction(_ context.Context, orderID string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.transactions[orderID]
	if !ok {
		return nil, fmt.Errorf("transaction %s: %w", orderID, storage.ErrNotFound)
	}
	return &tx, nil
}

func (s *Store) ListTransactionsByUserID(_ context.Context, userID string) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Transaction{}
	for _, tx := range s.transactions {
		if tx.UserId == userID {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) GetStaleTransactions(_ context.Context, status models.TransactionStatus, maxAge time.Duration) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().UTC().Add(-maxAge)
	out := []models.Transaction{}
	for _, tx := range s.transactions {
		if tx.Status == status && tx.CreatedAt.Before(cutoff) {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) UpdateTransactionStatus(_ context.Context, orderID string, from, to models.TransactionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.transactions[orderID]
	if !ok {
		return fmt.Errorf("transaction %s: %w", orderID, storage.ErrNotFound)
	}
	if tx.Status != from {
		return fmt.Errorf("transaction %s is %s, expected %s: %w", orderID, tx.Status, from, storage.ErrStatusConflict)
	}
	tx.Status = to
	tx.UpdatedAt = time.Now().UTC()
	s.transactions[orderID] = tx
	return nil
}

func (s *Store) GetBalance(_ context.Context, userID string) (*models.Balance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.balances[userID]
	if !ok {
		return &models.Balance{UserId: userID, Balance: models.MoneyFromInt(0)}, nil
	}
	return &b, nil
}

// CreditTransaction applies the credit unit under the store lock. Every
// condition is checked before anything is written.
func (s *Store) CreditTransaction(_ context.Context, tx *models.Transaction, expected models.TransactionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	balance, hasBalance := s.balances[tx.UserId]
	if !hasBalance && s.RequireExistingBalance {
		return fmt.Errorf("credit %s: %w", tx.OrderId, storage.ErrUserNotFound)
	}
	stored, ok := s.transactions[tx.OrderId]
	if !ok || stored.Status != expected {
		return fmt.Errorf("credit %s: %w", tx.OrderId, storage.ErrStatusConflict)
	}
	debit, credit := storage.LedgerEntriesFor(tx, now)
	if _, exists := s.ledger[debit.EntryID]; exists {
		return fmt.Errorf("credit %s: %w", tx.OrderId, storage.ErrAlreadyCredited)
	}
	if _, exists := s.ledger[credit.EntryID]; exists {
		return fmt.Errorf("credit %s: %w", tx.OrderId, storage.ErrAlreadyCredited)
	}

	if !hasBalance {
		balance = models.Balance{UserId: tx.UserId, Balance: models.MoneyFromInt(0), CreatedAt: now}
	}
	balance.Balance = balance.Balance.Add(tx.Amount)
	balance.Version++
	balance.UpdatedAt = now
	s.balances[tx.UserId] = balance

	stored.Status = models.SUCCESS
	stored.UpdatedAt = now
	s.transactions[tx.OrderId] = stored

	s.ledger[debit.EntryID] = debit
	s.ledger[credit.EntryID] = credit
	return nil
}

func (s *Store) ListLedgerEntries(_ context.Context, limit int32) ([]models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.LedgerEntry, 0, len(s.ledger))
	for _, e := range s.ledger {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if limit > 0 && int(limit) < len(out) {
		out = out[:limit]
	}
	return out, nil
}
