// Package reconcile turns gateway status events into transaction record
// transitions and credits a top-up exactly once.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chris/topup-webhook-bridge/pkg/gateway"
	"github.com/chris/topup-webhook-bridge/pkg/models"
	"github.com/chris/topup-webhook-bridge/pkg/records"
	"github.com/chris/topup-webhook-bridge/pkg/storage"
)

// ErrUnknownOrder is returned when an event names an order with no record.
var ErrUnknownOrder = fmt.Errorf("unknown order: %w", storage.ErrNotFound)

// ErrAmountMismatch is returned when a payment confirmation carries a different amount than the record.
var ErrAmountMismatch = errors.New("notification amount does not match transaction amount")

const defaultMaxAttempts = 3

type Outcome string

const (
	OutcomeCredited         Outcome = "credited"
	OutcomeUpdated          Outcome = "updated"
	OutcomeAlreadyFinalized Outcome = "already-finalized"
	OutcomeUnchanged        Outcome = "unchanged"
)

// Result describes what one reconciliation did.
type Result struct {
	Outcome     Outcome
	From        models.TransactionStatus
	To          models.TransactionStatus
	Transaction *models.Transaction
}

type Engine struct {
	records     *records.Manager
	credits     storage.CreditStore
	logger      *slog.Logger
	maxAttempts int
}

func NewEngine(rec *records.Manager, credits storage.CreditStore, logger *slog.Logger) *Engine {
	return &Engine{records: rec, credits: credits, logger: logger, maxAttempts: defaultMaxAttempts}
}

// Reconcile applies one gateway event to the order's record.
func (e *Engine) Reconcile(ctx context.Context, orderID, transactionStatus, fraudStatus string) (*Result, error) {
	return e.reconcile(ctx, orderID, transactionStatus, fraudStatus, nil)
}

// HandleNotification reconciles a verified notification. A payment
// confirmation is only credited if its gross amount equals the record amount.
func (e *Engine) HandleNotification(ctx context.Context, n *gateway.Notification) (*Result, error) {
	amount := n.GrossAmount
	return e.reconcile(ctx, n.OrderID, n.TransactionStatus, n.FraudStatus, &amount)
}

func (e *Engine) reconcile(ctx context.Context, orderID, transactionStatus, fraudStatus string, paid *models.Money) (*Result, error) {
	logger := e.logger.With(
		slog.String("order_id", orderID),
		slog.String("transaction_status", transactionStatus),
		slog.String("fraud_status", fraudStatus),
	)

	for attempt := 1; ; attempt++ {
		tx, err := e.records.Get(ctx, orderID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, fmt.Errorf("order %s: %w", orderID, ErrUnknownOrder)
			}
			return nil, fmt.Errorf("failed to load transaction %s: %w", orderID, err)
		}

		next, known := NextStatus(tx.Status, transactionStatus, fraudStatus)
		if !known {
			logger.Warn("Ignoring unhandled gateway status", slog.String("current_status", string(tx.Status)))
		}

		res := &Result{From: tx.Status, To: next, Transaction: tx}
		if next == tx.Status {
			res.Outcome = OutcomeUnchanged
			if tx.Status.IsTerminal() {
				res.Outcome = OutcomeAlreadyFinalized
			}
			return res, nil
		}

		if next == models.SUCCESS {
			if paid != nil && !paid.Equal(tx.Amount) {
				logger.Error("Refusing credit with mismatched amount",
					slog.String("notified_amount", paid.String()),
					slog.String("recorded_amount", tx.Amount.String()))
				return nil, fmt.Errorf("order %s: notified %s, recorded %s: %w", orderID, paid.String(), tx.Amount.String(), ErrAmountMismatch)
			}
			err = e.credits.CreditTransaction(ctx, tx, tx.Status)
			res.Outcome = OutcomeCredited
		} else {
			err = e.records.SetStatus(ctx, orderID, tx.Status, next)
			res.Outcome = OutcomeUpdated
		}

		if err == nil {
			tx.Status = next
			logger.Info("Reconciled transaction",
				slog.String("from", string(res.From)),
				slog.String("to", string(res.To)),
				slog.String("outcome", string(res.Outcome)))
			return res, nil
		}

		if !errors.Is(err, storage.ErrStatusConflict) && !errors.Is(err, storage.ErrAlreadyCredited) {
			return nil, fmt.Errorf("failed to apply %s to %s: %w", next, orderID, err)
		}
		if attempt >= e.maxAttempts {
			return nil, fmt.Errorf("order %s still contended after %d attempts: %w", orderID, attempt, err)
		}
		logger.Info("Transaction changed concurrently, reloading", slog.Int("attempt", attempt))
	}
}
